package classifier

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/tools"
)

//go:embed instruction.tmpl
var instructionText string

var instructionTmpl = template.Must(template.New("instruction").Funcs(template.FuncMap{
	"join": func(names []string) string { return strings.Join(names, ", ") },
	"roles": func(roles []domain.Role) string {
		out := make([]string, len(roles))
		for i, r := range roles {
			out[i] = string(r)
		}
		return strings.Join(out, ", ")
	},
}).Parse(instructionText))

type baseFetchRow struct {
	Role domain.Role
	Tool string
}

type instructionData struct {
	Role        domain.Role
	Tools       []tools.Schema
	BaseFetch   []baseFetchRow
	Transitions string
}

// Instruction renders the classifier instruction for role from the catalog.
func Instruction(role domain.Role) (string, error) {
	data := instructionData{
		Role:        role,
		Tools:       tools.All(),
		Transitions: transitionChain(),
	}
	for _, r := range []domain.Role{domain.RoleCustomer, domain.RoleServicePerson, domain.RoleAdmin, domain.RoleAgent} {
		data.BaseFetch = append(data.BaseFetch, baseFetchRow{Role: r, Tool: tools.BaseFetch(r)})
	}

	var buf bytes.Buffer
	if err := instructionTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render instruction: %w", err)
	}
	return buf.String(), nil
}

// transitionChain renders the linear status order starting at Open.
func transitionChain() string {
	chain := []string{string(domain.TicketStatusOpen)}
	seen := map[domain.TicketStatus]bool{domain.TicketStatusOpen: true}
	for cur := domain.TicketStatusOpen; ; {
		next := tools.NextStatuses(cur)
		if len(next) == 0 || seen[next[0]] {
			break
		}
		cur = next[0]
		seen[cur] = true
		chain = append(chain, string(cur))
	}
	return strings.Join(chain, " -> ")
}
