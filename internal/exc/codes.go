package exc

const (
	CodeUnknownFatal                   = "T0000"
	CodeFileNotFound                   = "T0001"
	CodeUnsupportedFileSystemOperation = "T0002"
	CodePermissionDenied               = "T0003"
	CodeUnsupportedFileFormat          = "T0004"
	CodeUnexpectedEOF                  = "T0005"
	CodeLexError                       = "T0006"
	CodeSyntaxError                    = "T0007"
	CodeIncompleteParse                = "T0008"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{}
)
