package validator

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/specialistvlad/dictcheck/internal/model"
)

func renderPreamble(p preamble, scope model.Scope) []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	for s := model.ScopeProject; s >= scope; s-- {
		if s != model.ScopeProject {
			root.AppendNewline()
		}
		body := root.AppendNewBlock(s.String(), nil).Body()
		for _, e := range p.entries {
			if e.scope != s {
				continue
			}
			if e.err != nil {
				msg := strings.ReplaceAll(e.err.Error(), "\n", " ")
				body.AppendUnstructuredTokens(hclwrite.Tokens{{
					Type:  hclsyntax.TokenComment,
					Bytes: []byte(fmt.Sprintf("# %s: %s\n", e.name, msg)),
				}})
				continue
			}
			if e.value.IsNull() {
				continue
			}
			body.SetAttributeValue(e.name, e.value)
		}
	}
	return hclwrite.Format(f.Bytes())
}
