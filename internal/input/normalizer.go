package input

import (
	"github.com/zjrosen/lineconsole/internal/buffer"
	"github.com/zjrosen/lineconsole/internal/log"
)

// allowed is the set of codes the secondary channel may act on.
var allowed = map[Code]bool{
	CodeBackspace: true,
	CodeEnter:     true,
	CodeEnd:       true,
	CodeHome:      true,
	CodeLeft:      true,
	CodeRight:     true,
	CodeDelete:    true,
}

// Normalizer maps raw key events to actions. It keeps no state between
// events.
type Normalizer struct {
	logger    *log.Logger
	traceKeys bool
}

// NewNormalizer creates a normalizer. With traceKeys every event and its
// outcome is logged at debug level.
func NewNormalizer(logger *log.Logger, traceKeys bool) *Normalizer {
	return &Normalizer{logger: logger, traceKeys: traceKeys}
}

// Normalize applies the dispatch rules to ev, in order.
func (n *Normalizer) Normalize(ev Event) Result {
	res := normalize(ev)
	if n != nil && n.traceKeys {
		n.logger.Debug(log.CatInput, "key",
			"channel", ev.Channel,
			"code", ev.Code,
			"char", int(ev.Char),
			"mods", ev.Mods,
			"action", res.Action,
			"prevent", res.PreventDefault)
	}
	return res
}

func normalize(ev Event) Result {
	if ev.Mods.Has(ModAlt) {
		return Result{}
	}

	if ev.Channel == Secondary {
		if !allowed[ev.Code] {
			return Result{}
		}
		return Result{Action: codeAction(ev.Code, ev.Mods), PreventDefault: true}
	}

	// Backspace is acted on from the secondary channel only.
	if ev.Code == CodeBackspace {
		return Result{PreventDefault: true}
	}

	if ev.Char == 0 {
		return Result{}
	}

	switch {
	case ev.Mods.Has(ModMeta):
		return Result{}
	case ev.Mods.Has(ModCtrl) && (ev.Char == 'c' || ev.Char == 'C'):
		return Result{Action: Action{Kind: Interrupt}, PreventDefault: true}
	case ev.Mods.Has(ModCtrl):
		return Result{}
	case ev.Char >= 32 && ev.Char <= 126:
		return Result{Action: Action{Kind: InsertChar, Char: ev.Char}, PreventDefault: true}
	}
	return Result{}
}

func codeAction(code Code, mods Modifiers) Action {
	move := MoveChar
	if mods.Has(ModCtrl) {
		move = MoveWord
	}

	switch code {
	case CodeEnter:
		return Action{Kind: Submit}
	case CodeBackspace:
		return Action{Kind: DeleteBackward}
	case CodeDelete:
		return Action{Kind: DeleteForward}
	case CodeLeft:
		return Action{Kind: move, Dir: buffer.Previous}
	case CodeRight:
		return Action{Kind: move, Dir: buffer.Next}
	case CodeHome:
		return Action{Kind: MoveToStart}
	case CodeEnd:
		return Action{Kind: MoveToEnd}
	}
	return Action{}
}
