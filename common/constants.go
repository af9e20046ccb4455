package common

const (
	SrcFileExtension = ".kaso"
	ConfigFileName   = ".kaso.toml"
	HistoryFileName  = ".kaso_history.db"
	KasoVersion      = "0.1.0"
	StdinReprPath    = "<stdin>"
)
