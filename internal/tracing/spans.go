package tracing

// Span names.
const (
	SpanDispatch = "command.dispatch"
)

// Span attribute keys for command dispatch.
const (
	AttrCommandName     = "command.name"
	AttrCommandExecID   = "command.exec_id"
	AttrCommandFallback = "command.fallback"
	AttrCommandArgsLen  = "command.args_len"

	AttrResultLen       = "result.len"
	AttrResultNoNewLine = "result.no_newline"
	AttrResultAsync     = "result.async"
)
