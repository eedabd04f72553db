package constant

// Asset types surfaced as tabs in the console.
const (
	AssetTypeAll              = "all"
	AssetTypeCatalog          = "catalog"
	AssetTypeLogicalView      = "logical_view"
	AssetTypeInterfaceService = "interface_service"
	AssetTypeIndicator        = "indicator"
)

// AssetTypes lists the concrete (non-"all") types.
var AssetTypes = []string{
	AssetTypeCatalog,
	AssetTypeLogicalView,
	AssetTypeInterfaceService,
	AssetTypeIndicator,
}

// Quality issue workflow states.
const (
	IssueStatusOpen         = "open"
	IssueStatusAcknowledged = "acknowledged"
	IssueStatusResolved     = "resolved"
)

// Quality dimensions scored per report.
const (
	QualityDimCompleteness = "completeness"
	QualityDimAccuracy     = "accuracy"
	QualityDimTimeliness   = "timeliness"
	QualityDimConsistency  = "consistency"
)
