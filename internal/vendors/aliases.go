// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package vendors

// aliases maps lower-cased vendor strings to their canonical form. Every
// canonical name must also appear as a key (lower-cased) mapping to itself.
var aliases = map[string]string{
	// Acer
	"acer":               "Acer",
	"acer inc":           "Acer",
	"acer inc.":          "Acer",
	"acer, inc.":         "Acer",
	"acer incorporated":  "Acer",
	"gateway":            "Acer",
	"emachines":          "Acer",
	"packard bell":       "Acer",
	"packard bell bv":    "Acer",
	"packard bell b.v.":  "Acer",
	"acer computer inc.": "Acer",

	// Apple
	"apple":                "Apple",
	"apple inc.":           "Apple",
	"apple inc":            "Apple",
	"apple computer, inc":  "Apple",
	"apple computer, inc.": "Apple",

	// ASRock
	"asrock":      "ASRock",
	"asrock inc.": "ASRock",

	// Asus
	"asus":                           "Asus",
	"asustek":                        "Asus",
	"asustek computer inc":           "Asus",
	"asustek computer inc.":          "Asus",
	"asustek computer incorporation": "Asus",
	"asustek computer, inc.":         "Asus",
	"asus computer inc.":             "Asus",

	// Biostar
	"biostar":       "Biostar",
	"biostar group": "Biostar",

	// Chuwi
	"chuwi":            "Chuwi",
	"chuwi innovation": "Chuwi",

	// Clevo
	"clevo":     "Clevo",
	"clevo co.": "Clevo",

	// Compal
	"compal":                   "Compal",
	"compal electronics, inc.": "Compal",

	// Dell
	"dell":                      "Dell",
	"dell inc":                  "Dell",
	"dell inc.":                 "Dell",
	"dell computer corporation": "Dell",
	"dell computer corp.":       "Dell",
	"alienware":                 "Dell",
	"alienware corporation":     "Dell",

	// Dynabook
	"dynabook":      "Dynabook",
	"dynabook inc.": "Dynabook",

	// ECS
	"ecs":                                   "ECS",
	"elitegroup":                            "ECS",
	"elitegroup computer systems":           "ECS",
	"elitegroup computer systems co., ltd.": "ECS",

	// Endless
	"endless":                   "Endless",
	"endless computers":         "Endless",
	"endless mobile":            "Endless",
	"endless mobile, inc.":      "Endless",
	"endless os foundation":     "Endless",
	"endless os foundation llc": "Endless",

	// Foxconn
	"foxconn":           "Foxconn",
	"hon hai precision": "Foxconn",

	// Fujitsu
	"fujitsu":                          "Fujitsu",
	"fujitsu limited":                  "Fujitsu",
	"fujitsu client computing limited": "Fujitsu",
	"fujitsu siemens":                  "Fujitsu",
	"fujitsu siemens computers":        "Fujitsu",
	"fujitsu-siemens":                  "Fujitsu",

	// Gigabyte
	"gigabyte":                      "Gigabyte",
	"gigabyte technology co., ltd.": "Gigabyte",
	"gigabyte technology co.,ltd.":  "Gigabyte",

	// Google
	"google":     "Google",
	"google inc": "Google",

	// Haier
	"haier":          "Haier",
	"haier computer": "Haier",

	// Hasee
	"hasee":          "Hasee",
	"hasee computer": "Hasee",

	// HP
	"hp":                          "HP",
	"hp inc.":                     "HP",
	"hewlett packard":             "HP",
	"hewlett-packard":             "HP",
	"hewlett-packard company":     "HP",
	"hewlett packard enterprise":  "HP",
	"compaq":                      "HP",
	"compaq computer corporation": "HP",

	// Huawei
	"huawei":                        "Huawei",
	"huawei technologies co., ltd.": "Huawei",

	// Intel
	"intel":                   "Intel",
	"intel corporation":       "Intel",
	"intel(r) client systems": "Intel",

	// Lenovo
	"lenovo":               "Lenovo",
	"lenovo group limited": "Lenovo",
	"lenovo product":       "Lenovo",
	"ibm":                  "Lenovo",

	// LG
	"lg":                  "LG",
	"lg electronics":      "LG",
	"lg electronics inc.": "LG",

	// Medion
	"medion":    "Medion",
	"medion ag": "Medion",

	// Microsoft
	"microsoft":             "Microsoft",
	"microsoft corporation": "Microsoft",

	// MSI
	"msi":                                "MSI",
	"micro-star":                         "MSI",
	"micro-star international":           "MSI",
	"micro-star international co., ltd":  "MSI",
	"micro-star international co., ltd.": "MSI",
	"micro-star international co.,ltd.":  "MSI",

	// Multilaser
	"multilaser":                 "Multilaser",
	"multilaser industrial s.a.": "Multilaser",

	// Panasonic
	"panasonic":                               "Panasonic",
	"panasonic corporation":                   "Panasonic",
	"matsushita electric industrial co.,ltd.": "Panasonic",

	// Pegatron
	"pegatron":             "Pegatron",
	"pegatron corporation": "Pegatron",

	// Positivo
	"positivo":                 "Positivo",
	"positivo tecnologia sa":   "Positivo",
	"positivo tecnologia s.a.": "Positivo",
	"positivo informatica sa":  "Positivo",
	"positivo bgh":             "Positivo",

	// Quanta
	"quanta":               "Quanta",
	"quanta computer inc.": "Quanta",

	// Razer
	"razer":       "Razer",
	"razer blade": "Razer",

	// Samsung
	"samsung":                       "Samsung",
	"samsung electronics":           "Samsung",
	"samsung electronics co., ltd.": "Samsung",
	"samsung electronics co.,ltd":   "Samsung",
	"samsung electronics co., ltd":  "Samsung",

	// Sony
	"sony":             "Sony",
	"sony corporation": "Sony",
	"vaio":             "Sony",
	"vaio corporation": "Sony",

	// Supermicro
	"supermicro":           "Supermicro",
	"super micro computer": "Supermicro",

	// System76
	"system76":       "System76",
	"system76, inc.": "System76",

	// Toshiba
	"toshiba":                             "Toshiba",
	"toshiba corporation":                 "Toshiba",
	"toshiba america information systems": "Toshiba",
	"semp toshiba":                        "Toshiba",

	// Virtual machines
	"innotek gmbh":       "VirtualBox",
	"virtualbox":         "VirtualBox",
	"oracle corporation": "VirtualBox",
	"qemu":               "QEMU",
	"vmware":             "VMware",
	"vmware, inc.":       "VMware",

	// Wistron
	"wistron":             "Wistron",
	"wistron corporation": "Wistron",

	// Xiaomi
	"xiaomi": "Xiaomi",
	"timi":   "Xiaomi",

	// Zotac
	"zotac":               "Zotac",
	"zotac international": "Zotac",

	// Placeholders shipped as-is by board firmware.
	"to be filled by o.e.m.": "Unknown",
	"system manufacturer":    "Unknown",
	"default string":         "Unknown",
	"oem":                    "Unknown",
	"unknown":                "Unknown",
}
