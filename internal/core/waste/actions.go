package waste

import "github.com/codesleeps/leanConstruction-sub002/pkg/models"

// remediationActions holds the canned recommendation text per category.
var remediationActions = map[models.WasteCategory]string{
	models.WasteDefects:           "Increase inspection frequency at rework hotspots and schedule root-cause reviews with the trades producing defects",
	models.WasteOverproduction:    "Align batch sizes and work packages with downstream demand; stop producing ahead of confirmed need",
	models.WasteWaiting:           "Resequence crew assignments around the current delay drivers and confirm material delivery windows with suppliers",
	models.WasteNonUtilizedTalent: "Rebalance skilled labor across active work fronts and review task assignments against certifications",
	models.WasteTransportation:    "Consolidate material moves and relocate laydown areas closer to the active work fronts",
	models.WasteInventory:         "Reduce on-site stock to near-term demand and return or redistribute surplus material",
	models.WasteMotion:            "Reorganize tool cribs and site layout to cut crew travel between storage and work areas",
	models.WasteExtraProcessing:   "Remove duplicate approval and inspection steps; align finish levels with the contract specification",
}
