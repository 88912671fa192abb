package config

// ConfigFileNames are the file names FindConfig looks for, in order.
var ConfigFileNames = []string{"refinery.yaml", "refinery.yml"}

// Defaults applied by Config.setDefaults.
const (
	DefaultOutput   = "."
	DefaultPackage  = "refinements"
	DefaultCache    = ".refinery/cache.db"
	DefaultTextExt  = ".idr"
	DefaultStrategy = StrategyPlain
)

// Strategy names accepted in the `strategy` field of a type.
const (
	StrategyPlain   = "plain"
	StrategyInteger = "integer"
	StrategyFloat   = "float"
	StrategyString  = "string"
)

// StrategyNames lists every known strategy.
var StrategyNames = []string{StrategyPlain, StrategyInteger, StrategyFloat, StrategyString}

// Generated function names
const (
	RefineFuncName      = "refine"
	FromIntegerFuncName = "fromInteger"
	FromDoubleFuncName  = "fromDouble"
	FromStringFuncName  = "fromString"
	FromJustFuncName    = "fromJust"
)

// Decision procedure names. The erased variants produce no witness.
const (
	DecideFuncName       = "decide"
	DecideErasedFuncName = "decide0"
	DecidePredicateArg   = "p"
	YesCtorName          = "Yes"
	NoCtorName           = "No"
	YesErasedCtorName    = "Yes0"
	NoErasedCtorName     = "No0"
)

// Built-in type names
const (
	MaybeTypeName   = "Maybe"
	JustCtorName    = "Just"
	NothingCtorName = "Nothing"
	IsJustTypeName  = "IsJust"
	IntegerTypeName = "Integer"
	DoubleTypeName  = "Double"
	StringTypeName  = "String"
)
