package config

// CallTargetKey marks a namespace as invocable: its value is what gets called.
const CallTargetKey = "call_target"

// Signature encoding
const (
	SegmentSeparator = "|"
	NameSeparator    = ","
	WildcardMarker   = "*"
	// CatchAllSuffix is what an encoding ends with when the callee takes arbitrary named args.
	CatchAllSuffix = SegmentSeparator + WildcardMarker
	// MatchKeySeparator joins the parts of a matcher cache key.
	MatchKeySeparator = ";"
)

// Struct tag used to declare named parameters on introspectable funcs.
const (
	ArgTagName     = "arg"
	ArgTagOptional = "optional"
	ArgTagRest     = "rest"
	ArgTagSkip     = "-"
)

// AttrTagName renames struct fields exposed as members.
const AttrTagName = "attr"

// Config file names searched by FindConfig, in order.
var ConfigFileNames = []string{"evalkit.yaml", "evalkit.yml"}

// Defaults
const (
	DefaultMatchCacheSize     = 4096
	DefaultSignatureCacheSize = 1024
	DefaultLogLevel           = "warn"
	DefaultLogFormat          = "text"
	DefaultMetricsNamespace   = "evalkit"
)

// Cache names, also used as metric label values.
const (
	MatchCacheName     = "match"
	SignatureCacheName = "signature"
)

// SuggestionDistance is the largest edit distance offered as a "did you mean" hint.
const SuggestionDistance = 2
