package docloader

// The format specific decoders produce these definitions; build turns them
// into documents.

type projectDef struct {
	Name  string
	File  string
	Vars  []varDef
	Lines []lineDef
}

type lineDef struct {
	Name  string
	Vars  []varDef
	Flows []flowDef
}

type flowDef struct {
	Name   string
	Vars   []varDef
	Params []paramDef
}

type varDef struct {
	Name  string
	Type  string
	Value string
	Step  *string
	Count *string
}

type paramDef struct {
	Keyword  string
	Type     string
	Value    string
	Required bool
}
