package config

// BuiltinArrangements returns the arrangements available without any
// configuration. User entries with the same name patch these.
func BuiltinArrangements() map[string]Arrangement {
	full := TileRegion{Type: RegionFull}
	return map[string]Arrangement{
		"grid": {
			Mode:            ModeGrid,
			TileRegion:      full,
			FlexibleLastRow: true,
		},
		"columns": {
			Mode:       ModeColumns,
			TileRegion: full,
		},
		"rows": {
			Mode:       ModeRows,
			TileRegion: full,
		},
		"master-stack": {
			Mode:       ModeMasterStack,
			TileRegion: full,
			MasterStack: MasterStack{
				MasterWidthPercent: 50,
				MaxStackRows:       3,
				MaxStackCols:       2,
			},
		},
		"cascade": {
			Mode:        ModeCascade,
			TileRegion:  full,
			CascadeStep: 32,
		},
	}
}
