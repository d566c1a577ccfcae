package render

// The tag constants below are what the proof-search methods write into
// their output regions; render's layout passes turn them into either
// ASCII or UTF-8 text. Each mirrors one of outputmodule.cpp's
// special-character methods (rule_arrow, dp_arrow, beta_symbol, ...),
// which themselves just return one of these literal strings.
const (
	RuleArrow      = "<rulearrow/>"
	ReduceArrow    = "<rulearrow/>"
	DPArrow        = "<dparrow/>"
	BetaArrow      = "<betaarrow/>"
	TypeArrow      = "<typearrow/>"
	TypedecArrow   = "<typedecarrow/>"
	BetaSymbol     = "<beta/>"
	EtaSymbol      = "<eta/>"
	GammaSymbol    = "<gamma/>"
	PiSymbol       = "<pi/>"
	BottomSymbol   = "<bottom/>"
	EmptySetSymbol = "<emptyset/>"
	InSymbol       = "<in/>"
	Projection     = "<nu/>"
	GTermSymbol    = "<gterm/>"
	GeqTermSymbol  = "<geqterm/>"
	GeqOrGTerm     = "<geqorgterm/>"
	PolGeqSymbol   = "<polgeq/>"
	PolGSymbol     = "<polg/>"
	LeftInterpret  = "<leftinterpret/>"
	RightInterpret = "<rightinterpret/>"
	SupertermSym   = "<supterm/>"
	RankReduceSym  = "<rankreduce/>"
)

// Up renders the dependency-pair marker a symbol's name carries when it
// is promoted into a DP head, e.g. "plus^#" -- ported from
// OutputModule::up_symbol, which appends the literal "^#" to the
// symbol's name.
func Up(name string) string {
	return name + "^#"
}

// Sub wraps txt as a subscript, ported from OutputModule::sub.
func Sub(txt string) string {
	return "<subscript>" + txt + "</subscript>"
}

// utfSymbol is outputmodule.cpp's utf_symbol table: when useUTF is
// true, known ASCII fallbacks are replaced by their UTF-8 glyph;
// anything else (and everything when useUTF is false) passes through
// unchanged, except for the two relation symbols that still need an
// ASCII-safe fallback distinct from their tag name.
func utfSymbol(symbol string, useUTF bool) string {
	if !useUTF {
		switch symbol {
		case "gterm":
			return ">"
		case "geqterm":
			return ">="
		default:
			return symbol
		}
	}
	switch symbol {
	case "=>":
		return "⇒"
	case "=#>":
		return "⇛"
	case "->":
		return "→"
	case "-->":
		return "⟶"
	case "/\\":
		return "λ"
	case "*":
		return "×"
	case " ":
		return " · "
	case "=>_beta":
		return "⇒_β"
	case "|>":
		return "▷"
	case "[>]":
		return "⊒"
	case "gterm":
		return "≻"
	case "geqterm":
		return "⪲"
	case ">=":
		return "≥"
	case "\\":
		return "Λ"
	case "[[":
		return "⟦"
	case "]]":
		return "⟧"
	case "_|_":
		return "⊥"
	case "in":
		return "∈"
	case "beta":
		return "β"
	case "eta":
		return "η"
	case "gamma":
		return "γ"
	case "nu":
		return "ν"
	case "pi":
		return "π"
	case "#":
		return "♯"
	case "{}":
		return "∅"
	default:
		return symbol
	}
}
