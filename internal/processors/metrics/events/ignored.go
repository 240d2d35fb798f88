// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package events

// ignoredEvents are legacy event types still sent by old clients. Their
// occurrences are discarded without writing any row.
var ignoredEvents = []string{
	"005096c4-9444-48c6-844b-6cb693c15235", // search bar launched
	"337fa66d-5163-46ae-ab20-dc605b5d7307", // app store search
	"3a4eff55-5d77-4c0f-a3f4-b0f4e0d5b1a2", // shell search
	"566adb36-7701-4067-a971-a398312c2874", // desktop locale
	"6dad6c44-f52f-4bca-8b4c-dc203f175b97", // hack toy app session
	"7be59566-2b23-408a-acf6-91490fc1df1c", // app store updates
	"8f70276e-3f78-45b2-99f8-94db231d42dd", // image locale
	"9a0cf836-12bb-4b20-b2bd-fe7adc2ec26a", // flatpak install started
	"ab839fd2-a927-456c-8c36-06071885680f", // pre-v3 uptime
	"b4c86b97-acc4-4561-a80d-ba9b924a2f87", // app adder search
	"bef3d12c-df9b-43cd-a67c-31abc5361f03", // yelp search
	"e3c8a2f1-f6bb-4a8b-8b6c-6c2fab0d7b2e", // knowledge app search
	"fae2ed58-46e6-4ac1-9b9e-2ebb4a3b3a9e", // home page visit
}

// ignoreEmptyEvents are registered events whose clients are known to send
// them without payload. Those occurrences are dropped instead of stored as
// invalid.
var ignoreEmptyEvents = []string{
	"3c5d59d2-6c3f-474b-95f4-ac6fcc192655", // ControlCenterPanelOpened
	"0bba3340-52e3-41a2-854f-e6ed36621379", // LinuxPackageOpened
	"cf09194a-3090-4782-ab03-87b2f1515aed", // WindowsAppOpened
	"eb0302d8-62e7-274b-365f-cd4e59103983", // LocationLabel
}
