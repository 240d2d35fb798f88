// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package events

import (
	"github.com/tomtom215/azafea/internal/gvariant"
	"github.com/tomtom215/azafea/internal/imageid"
	"github.com/tomtom215/azafea/internal/models"
	"github.com/tomtom215/azafea/internal/vendors"
)

var sig = gvariant.MustParseType

func singularEvents() []*Spec {
	return []*Spec{
		{
			ID:      "bf7e8aed-2932-455c-a28e-d407cfd5aaba",
			Name:    "StartupFinished",
			Table:   "startup_finished",
			Payload: sig("(tttttt)"),
			Columns: []models.Column{
				col("firmware", "bigint"), col("loader", "bigint"), col("kernel", "bigint"),
				col("initrd", "bigint"), col("userspace", "bigint"), col("total", "bigint"),
			},
			Build: direct("firmware", "loader", "kernel", "initrd", "userspace", "total"),
		},
		{
			ID:      "9af2cc74-d6dd-423f-ac44-600a6eee2d96",
			Name:    "Uptime",
			Table:   "uptime",
			Payload: sig("(xx)"),
			Columns: []models.Column{col("accumulated_uptime", "bigint"), col("number_of_boots", "bigint")},
			Build:   direct("accumulated_uptime", "number_of_boots"),
		},
		{
			ID:      "6b1c1cfc-bc36-438c-0647-dacd5878f2b3",
			Name:    "ImageVersion",
			Table:   "image_version",
			Payload: sig("s"),
			Columns: append([]models.Column{indexed("image_id", "text")}, imageColumns()...),
			Build:   buildImageVersion,
		},
		{
			ID:      "1fa16a31-9225-467e-8502-e31806e9b4eb",
			Name:    "OSVersion",
			Table:   "os_version",
			Payload: sig("(sss)"),
			Columns: []models.Column{col("name", "text"), col("version", "text"), col("build_version", "text")},
			Build:   direct("name", "version", "build_version"),
		},
		{
			ID:      "aee94585-07a2-4483-a090-25abda650b12",
			Name:    "RAMSize",
			Table:   "ram_size",
			Payload: sig("u"),
			Columns: []models.Column{indexed("total", "bigint")},
			Build:   direct("total"),
		},
		{
			ID:      "da505554-4248-4a38-bb2c-4c715858b39d",
			Name:    "DiskSpaceExtra",
			Table:   "disk_space_extra",
			Payload: sig("(uuu)"),
			Columns: []models.Column{col("total", "bigint"), col("used", "bigint"), col("free", "bigint")},
			Build:   direct("total", "used", "free"),
		},
		{
			ID:      "5f58024f-3b66-4e4d-8a9e-fd3b2e9879df",
			Name:    "DiskSpaceSysroot",
			Table:   "disk_space_sysroot",
			Payload: sig("(uuu)"),
			Columns: []models.Column{col("total", "bigint"), col("used", "bigint"), col("free", "bigint")},
			Build:   direct("total", "used", "free"),
		},
		{
			ID:      "4a75488a-0d9a-4c38-8556-148f500edaf0",
			Name:    "CPUInfo",
			Table:   "cpu_info",
			Payload: sig("a(sqd)"),
			Columns: []models.Column{col("info", "jsonb")},
			Build:   asJSON("info"),
		},
		{
			ID:      "38eb48f8-e131-443d-ab1b-5c5a0ba7ba4d",
			Name:    "NetworkID",
			Table:   "network_id",
			Payload: sig("u"),
			Columns: []models.Column{indexed("network_id", "bigint")},
			Build:   direct("network_id"),
		},
		{
			ID:      "fa82f422-a685-46e4-91a7-7b7bfb5b289f",
			Name:    "MonitorConnected",
			Table:   "monitor_connected",
			Payload: sig("(ssssiiay)"),
			Columns: monitorColumns(),
			Build:   direct(monitorColumnNames...),
		},
		{
			ID:      "5e8c3f40-22a2-4d5d-82f3-e3bf927b5b74",
			Name:    "MonitorDisconnected",
			Table:   "monitor_disconnected",
			Payload: sig("(ssssiiay)"),
			Columns: monitorColumns(),
			Build:   direct(monitorColumnNames...),
		},
		{
			ID:      "74ceec37-1f0e-4e4d-9e24-fa4e5b5089bb",
			Name:    "MissingCodec",
			Table:   "missing_codec",
			Payload: sig("(ssssa{sv})"),
			Columns: []models.Column{
				col("gstreamer_version", "text"), col("app_name", "text"), col("type", "text"),
				indexed("name", "text"), col("extra_info", "jsonb"),
			},
			Build: direct("gstreamer_version", "app_name", "type", "name", "extra_info"),
		},
		{
			ID:      "ed57b607-4a56-47f1-b1e4-5dc3e74335ec",
			Name:    "ProgramDumpedCore",
			Table:   "program_dumped_core",
			Payload: sig("a{sv}"),
			Columns: []models.Column{col("info", "jsonb")},
			Build:   asJSON("info"),
		},
		{
			ID:      "927d0f61-4890-4912-a513-b2cb0205908f",
			Name:    "UpdaterFailure",
			Table:   "updater_failure",
			Payload: sig("(ss)"),
			Columns: []models.Column{indexed("component", "text"), col("error_message", "text")},
			Build:   direct("component", "error_message"),
		},
		{
			ID:      "99f48aac-b5a0-426d-95f4-18af7d081c4e",
			Name:    "UpdaterBranchSelected",
			Table:   "updater_branch_selected",
			Payload: sig("(sssb)"),
			Columns: []models.Column{
				indexed("hardware_vendor", "text"), col("hardware_product", "text"),
				col("ostree_branch", "text"), col("on_hold", "boolean"),
			},
			Build: buildUpdaterBranchSelected,
		},
		{
			ID:      "eb0302d8-62e7-274b-365f-cd4e59103983",
			Name:    "LocationLabel",
			Table:   "location_label",
			Payload: sig("a{ss}"),
			Columns: []models.Column{col("info", "jsonb")},
			Build:   asJSON("info"),
		},
		{
			ID:      "ef74310f-7c7e-ca05-0e56-3e495973070a",
			Name:    "WindowsLicenseTables",
			Table:   "windows_license_tables",
			Payload: sig("u"),
			Columns: []models.Column{col("tables", "bigint")},
			Build:   direct("tables"),
		},
		{
			ID:      "3c5d59d2-6c3f-474b-95f4-ac6fcc192655",
			Name:    "ControlCenterPanelOpened",
			Table:   "control_center_panel_opened",
			Payload: sig("s"),
			Columns: []models.Column{indexed("name", "text")},
			Build:   direct("name"),
		},
		{
			ID:      "0bba3340-52e3-41a2-854f-e6ed36621379",
			Name:    "LinuxPackageOpened",
			Table:   "linux_package_opened",
			Payload: sig("as"),
			Columns: []models.Column{col("argv", "text[]")},
			Build:   direct("argv"),
		},
		{
			ID:      "cf09194a-3090-4782-ab03-87b2f1515aed",
			Name:    "WindowsAppOpened",
			Table:   "windows_app_opened",
			Payload: sig("as"),
			Columns: []models.Column{col("argv", "text[]")},
			Build:   direct("argv"),
		},
		{
			ID:      "51640a4e-79aa-47ac-b7e2-d3106a06e129",
			Name:    "ShellAppAddedToDesktop",
			Table:   "shell_app_added_to_desktop",
			Payload: sig("s"),
			Columns: []models.Column{indexed("app_id", "text")},
			Build:   direct("app_id"),
		},
		{
			ID:      "683b40a7-cac0-4f9a-994c-4b274693a0a0",
			Name:    "ShellAppRemovedFromDesktop",
			Table:   "shell_app_removed_from_desktop",
			Payload: sig("s"),
			Columns: []models.Column{indexed("app_id", "text")},
			Build:   direct("app_id"),
		},
		{
			ID:      "2b5c044d-d819-4e2c-a3a6-c485c1ac371e",
			Name:    "EndlessApplicationUnmaximized",
			Table:   "endless_application_unmaximized",
			Payload: sig("s"),
			Columns: []models.Column{indexed("app_id", "text")},
			Build:   direct("app_id"),
		},
		{
			ID:      "192f39dd-79b3-4497-99fa-9d8aea28760c",
			Name:    "LaunchedExistingFlatpak",
			Table:   "launched_existing_flatpak",
			Payload: sig("(sas)"),
			Columns: []models.Column{indexed("replacement_app_id", "text"), col("argv", "text[]")},
			Build:   direct("replacement_app_id", "argv"),
		},
		{
			ID:      "00d7bc1e-ec93-4c53-ae78-a6b40450be4a",
			Name:    "LaunchedEquivalentExistingFlatpak",
			Table:   "launched_equivalent_existing_flatpak",
			Payload: sig("(sas)"),
			Columns: []models.Column{indexed("replacement_app_id", "text"), col("argv", "text[]")},
			Build:   direct("replacement_app_id", "argv"),
		},
		{
			ID:      "7de69d43-5f6b-4bef-b5f3-a21295b79185",
			Name:    "LaunchedEquivalentInstallerForFlatpak",
			Table:   "launched_equivalent_installer_for_flatpak",
			Payload: sig("(sas)"),
			Columns: []models.Column{indexed("replacement_app_id", "text"), col("argv", "text[]")},
			Build:   direct("replacement_app_id", "argv"),
		},
		{
			ID:      "e98bf6d9-8511-44f9-a1bd-a1d0518934b9",
			Name:    "LaunchedInstallerForFlatpak",
			Table:   "launched_installer_for_flatpak",
			Payload: sig("(sas)"),
			Columns: []models.Column{indexed("replacement_app_id", "text"), col("argv", "text[]")},
			Build:   direct("replacement_app_id", "argv"),
		},
		{
			ID:      "449ec188-cb7b-45d3-a0ed-291d943b9aa6",
			Name:    "ParentalControlsChanged",
			Table:   "parental_controls_changed",
			Payload: sig("a{sv}"),
			Columns: parentalControlsColumns(),
			Build:   buildParentalControlsChanged,
		},
		{
			ID:      "c227a817-808c-4fcb-b797-21002d17b69a",
			Name:    "ParentalControlsEnabled",
			Table:   "parental_controls_enabled",
			Payload: sig("b"),
			Columns: []models.Column{col("enabled", "boolean")},
			Build:   direct("enabled"),
		},
		{
			ID:      "9d03daad-f1ed-41a8-bc5a-6b532c075832",
			Name:    "ParentalControlsBlockedFlatpakInstall",
			Table:   "parental_controls_blocked_flatpak_install",
			Payload: sig("s"),
			Columns: []models.Column{indexed("app", "text")},
			Build:   direct("app"),
		},
		{
			ID:      "afca2515-e9ce-43aa-b355-7663c770b4b6",
			Name:    "ParentalControlsBlockedFlatpakRun",
			Table:   "parental_controls_blocked_flatpak_run",
			Payload: sig("s"),
			Columns: []models.Column{indexed("app", "text")},
			Build:   direct("app"),
		},
		{
			ID:      "62ce2e93-bb6e-4f2d-a6d9-f5e8d4cfe1f5",
			Name:    "HackClubhouseAchievement",
			Table:   "hack_clubhouse_achievement",
			Payload: sig("(ss)"),
			Columns: []models.Column{indexed("achievement_id", "text"), col("achievement_name", "text")},
			Build:   direct("achievement_id", "achievement_name"),
		},
		{
			ID:      "86521913-bfa3-4d13-b511-a03d4e339d2f",
			Name:    "HackClubhouseAchievementPoints",
			Table:   "hack_clubhouse_achievement_points",
			Payload: sig("(sias)"),
			Columns: []models.Column{indexed("skillset", "text"), col("points", "bigint"), col("quest_ids", "text[]")},
			Build:   direct("skillset", "points", "quest_ids"),
		},
		{
			ID:      "2c765b36-a4c9-40ee-b313-dc73c4fa1f0d",
			Name:    "HackClubhouseChangePage",
			Table:   "hack_clubhouse_change_page",
			Payload: sig("s"),
			Columns: []models.Column{col("page", "text")},
			Build:   direct("page"),
		},
		{
			ID:      "600c1cae-b391-4cb4-9930-ea284792fdfb",
			Name:    "HackClubhouseEnterPathway",
			Table:   "hack_clubhouse_enter_pathway",
			Payload: sig("s"),
			Columns: []models.Column{col("pathway", "text")},
			Build:   direct("pathway"),
		},
		{
			ID:    "c75af67f-cf2f-433d-a060-a670087d93a1",
			Name:  "EnteredDemoMode",
			Table: "entered_demo_mode",
		},
		{
			ID:    "16cfc671-4525-4a99-9eb9-1b32bb2c4d79",
			Name:  "DualBootBooted",
			Table: "dual_boot_booted",
		},
		{
			ID:    "56be0b38-e47b-4578-9599-00ff9bda54bb",
			Name:  "LiveUsbBooted",
			Table: "live_usb_booted",
		},
		{
			ID:    "f0e8a206-3bc2-405e-90d0-ef6fe6dd7edc",
			Name:  "CacheIsCorrupt",
			Table: "cache_is_corrupt",
		},
	}
}

var monitorColumnNames = []string{
	"display_name", "display_vendor", "display_product", "display_serial",
	"display_width", "display_height", "edid",
}

func monitorColumns() []models.Column {
	return []models.Column{
		col("display_name", "text"), indexed("display_vendor", "text"), col("display_product", "text"),
		col("display_serial", "text"), col("display_width", "bigint"), col("display_height", "bigint"),
		col("edid", "bytea"),
	}
}

func imageColumns() []models.Column {
	return []models.Column{
		nullable(imageid.ColumnNames[0], "text"),
		nullable(imageid.ColumnNames[1], "text"),
		nullable(imageid.ColumnNames[2], "text"),
		nullable(imageid.ColumnNames[3], "text"),
		nullable(imageid.ColumnNames[4], "timestamptz"),
		nullable(imageid.ColumnNames[5], "text"),
	}
}

// buildImageVersion stores the raw image id and its parsed components. An
// unparseable id leaves the components NULL so parse-old-images can retry it.
func buildImageVersion(payload gvariant.Value) (models.Fields, error) {
	id := string(payload.(gvariant.String))
	img, err := imageid.Parse(id)
	if err != nil {
		img = imageid.Image{}
	}
	return append(models.Fields{{Name: "image_id", Value: id}}, models.ImageFields(img)...), nil
}

func buildUpdaterBranchSelected(payload gvariant.Value) (models.Fields, error) {
	t := payload.(gvariant.Tuple)
	return models.Fields{
		{Name: "hardware_vendor", Value: vendors.Normalize(string(t[0].(gvariant.String)))},
		{Name: "hardware_product", Value: string(t[1].(gvariant.String))},
		{Name: "ostree_branch", Value: string(t[2].(gvariant.String))},
		{Name: "on_hold", Value: bool(t[3].(gvariant.Bool))},
	}, nil
}
