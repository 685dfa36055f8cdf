package templates

var builtins = []Template{
	// 2 panels
	{Name: "2_side_by_side", Code: "ab", Description: "Two panels side by side", Size: SizeDouble},
	{Name: "2_stacked", Code: "a/b", Description: "Two panels stacked vertically", Size: SizeSingle},

	// 3 panels
	{Name: "3_top1_bottom2", Code: "aa/bc", Description: "Wide top panel + two bottom panels"},
	{Name: "3_left1_right2", Code: "ab/ac", Description: "Large left panel + two right panels"},
	{Name: "3_row", Code: "abc", Description: "Three panels in a row"},
	{Name: "3_bottom1_top2", Code: "ab/cc", Description: "Two top panels + wide bottom panel"},

	// 4 panels
	{Name: "4_grid", Code: "ab/cd", Description: "Classic 2x2 grid"},
	{Name: "4_top1_bottom3", Code: "aaa/bcd", Description: "Wide top panel + three bottom panels"},
	{Name: "4_left1_right3", Code: "ab/ac/ad", Description: "Large left panel + three stacked right panels"},
	{Name: "4_row", Code: "abcd", Description: "Four panels in a row"},
	{Name: "4_column", Code: "a/b/c/d", Description: "Four panels in a column", Size: SizeSingle},

	// 5 panels
	{Name: "5_top2_bottom3", Code: "aaabbb/ccddee", Description: "Two large top panels + three bottom panels"},
	{Name: "5_mixed", Code: "aab/aac/dde", Description: "Large top-left + two right + two bottom panels"},
	{Name: "5_top1_mid2_bottom2", Code: "aa/bc/de", Description: "Wide top + 2 middle + 2 bottom panels"},

	// 6 panels
	{Name: "6_grid_3x2", Code: "ab/cd/ef", Description: "3x2 grid (classic Nature 6-panel)"},
	{Name: "6_grid_2x3", Code: "abc/def", Description: "2x3 wide grid"},
	{Name: "6_top2_bottom4", Code: "aabb/cdef", Description: "Two large top + four bottom panels"},

	// 8 panels
	{Name: "8_grid_2x4", Code: "abcd/efgh", Description: "2x4 grid"},
	{Name: "8_grid_4x2", Code: "ab/cd/ef/gh", Description: "4x2 grid"},

	// Nature classics
	{Name: "nature_classic_5", Code: "aabc/aade", Description: "Nature classic: large left + 2x2 right"},
	{Name: "nature_classic_7", Code: "aabcc/ddeef/ddeeg", Description: "Nature classic: three columns, mixed heights"},
	{Name: "nature_image_quant", Code: "aab/aac/aad", Description: "Large image left + three quantifications right"},

	// Nature double column grids
	{
		Name: "nature_2x2", Code: "ab/cd", Category: CategoryGrid,
		Description: "Standard 2x2 grid for Nature double column (183mm)",
		Use:         "Four equal panels for related experiments, time series or condition comparisons.",
	},
	{
		Name: "nature_3x2", Code: "abc/def", Category: CategoryGrid,
		Description: "3 columns x 2 rows grid for comprehensive data presentation",
		Use:         "Six panels for condition screening, dose-response series or multi-timepoint experiments.",
	},
	{
		Name: "nature_4x2", Code: "abcd/efgh", Category: CategoryGrid,
		Description: "4 columns x 2 rows for high-density data presentation",
		Use:         "Eight compact panels for screens, library analysis or extensive controls.",
	},

	// Nature complex layouts
	{
		Name: "nature_l_shape", Code: "aab/aac/aad", Category: CategoryComplex,
		Description: "L-shaped layout with large main panel and side panels",
		Use:         "Large main panel for primary data with three smaller panels for quantification or controls.",
	},
	{
		Name: "nature_vertical_split", Code: "ab", Category: CategoryComplex,
		Description: "Vertical split with two large equal panels side by side",
		Use:         "Two large panels comparing major conditions, such as wild-type against mutant.",
	},
	{
		Name: "nature_horizontal_split", Code: "a/b", Category: CategoryComplex,
		Description: "Horizontal split with two large stacked panels",
		Use:         "Two full-width panels for sequential data or workflow stages.",
	},
	{
		Name: "nature_main_with_insets", Code: "aabc/aade/aafg", Category: CategoryComplex,
		Description: "Main panel with multiple side panels for detail views",
		Use:         "Large main panel with up to six detail panels for zoomed regions or channel splits.",
	},
	{
		Name: "nature_multi_row", Code: "abcc/defg/hhhh", Category: CategoryComplex,
		Description: "Multi-row complex layout for 6-8 subpanels with hierarchy",
		Use:         "Primary data on top, supporting experiments in the middle, summary at the bottom.",
	},

	// Nature specialized layouts
	{
		Name: "nature_western_blot", Code: "[blots:aaa/bbb]/cde", Category: CategorySpecialized,
		Description: "Western blot figure with quantification",
		Use:         "Full-width blot and loading control followed by quantification bar charts.",
	},
	{
		Name: "nature_microscopy_grid", Code: "abc/def/ghi", Category: CategorySpecialized,
		Description: "Microscopy-optimized 3x3 grid",
		Use:         "Multi-channel fluorescence with consistent scale bars and channel labels.",
	},
	{
		Name: "nature_figure1", Code: "aaaa/bbcc/defg", Category: CategorySpecialized,
		Description: "Classic Figure 1 layout with schematic and key data",
		Use:         "Schematic overview on top, key experiments in the middle, supporting panels below.",
	},
	{
		Name: "nature_supplementary", Code: "abcd/efgh/ijkl", Category: CategorySpecialized,
		Description: "Supplementary figure layout with uniform panel sizes",
		Use:         "Dense uniform grid for extended data, controls or replicates.",
	},
}
