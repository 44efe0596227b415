package introspect

import (
	"slices"
	"strconv"
	"strings"

	"go.jacobcolvin.com/platyps/help"
)

// aliasesIntro starts the ALIASES section body for commands with aliases.
const aliasesIntro = "This cmdlet has the following aliases,"

// ToCommandHelp builds structured help from an introspected command.
// Syntax and parameters come from the command's parameter sets. Prose
// comes from [Command.Help] when present and is otherwise left empty.
func ToCommandHelp(cmd Command) *help.CommandHelp {
	ch := help.NewCommandHelp(cmd.Name)
	ch.ModuleName = cmd.ModuleName
	ch.HasCmdletBinding = cmd.CmdletBinding

	if len(cmd.Aliases) > 0 {
		ch.Aliases = aliasesIntro + "\n  " + strings.Join(cmd.Aliases, ", ")
	}

	for _, t := range cmd.Inputs {
		ch.Inputs = append(ch.Inputs, help.InputOutput{Typename: t})
	}

	for _, t := range cmd.OutputType {
		ch.Outputs = append(ch.Outputs, help.InputOutput{Typename: t})
	}

	for _, set := range cmd.ParameterSets {
		ch.Syntax = append(ch.Syntax, syntaxItem(cmd, set))
	}

	ch.Parameters = parameters(cmd)

	if h := cmd.Help; h != nil {
		ch.Synopsis = h.Synopsis
		ch.Description = h.Description
		ch.Notes = h.Notes

		for _, e := range h.Examples {
			ch.Examples = append(ch.Examples, help.Example(e))
		}

		for _, l := range h.RelatedLinks {
			ch.RelatedLinks = append(ch.RelatedLinks, help.Link{URI: l.URI, LinkText: l.Text})
		}

		for i, p := range ch.Parameters {
			ch.Parameters[i].Description = lookupFold(h.Parameters, p.Name)
		}
	}

	ch.SortParameters()

	return ch
}

// documented filters out parameters that are never documented individually.
func documented(cmd Command, params []Parameter) []Parameter {
	if !cmd.CmdletBinding {
		return params
	}

	return slices.DeleteFunc(slices.Clone(params), func(p Parameter) bool {
		return IsCommonParameter(p.Name)
	})
}

func setName(name string) string {
	if name == "" || name == AllParameterSets {
		return help.ParameterSetsAll
	}

	return name
}

func syntaxSetName(name string) string {
	if name == "" || name == AllParameterSets {
		return help.DefaultParameterSetName
	}

	return name
}

// syntaxItem renders one parameter set the way PowerShell prints syntax:
// positional parameters first in position order, then the rest in
// declaration order. Positions are renumbered from 0.
func syntaxItem(cmd Command, set ParameterSet) help.SyntaxItem {
	item := help.SyntaxItem{
		CommandName:      cmd.Name,
		ParameterSetName: syntaxSetName(set.Name),
		IsDefault:        set.IsDefault || (cmd.DefaultParameterSet != "" && set.Name == cmd.DefaultParameterSet),
		HasCmdletBinding: cmd.CmdletBinding,
	}

	params := documented(cmd, set.Parameters)

	var positional, named []Parameter

	for _, p := range params {
		if p.IsPositional() && !p.IsSwitch() {
			positional = append(positional, p)
		} else {
			named = append(named, p)
		}
	}

	slices.SortStableFunc(positional, func(a, b Parameter) int {
		return *a.Position - *b.Position
	})

	for i, p := range positional {
		item.Parameters = append(item.Parameters, help.SyntaxParameter{
			Name:         p.Name,
			Type:         syntaxTypeName(p.ParameterType),
			Position:     strconv.Itoa(i),
			IsMandatory:  p.IsMandatory,
			IsPositional: true,
		})
	}

	for _, p := range named {
		sp := help.SyntaxParameter{
			Name:        p.Name,
			Type:        syntaxTypeName(p.ParameterType),
			Position:    help.PositionNamed,
			IsMandatory: p.IsMandatory,
		}

		if p.IsSwitch() {
			sp.Type = help.SwitchParameterType
			sp.IsSwitchParameter = true
		}

		item.Parameters = append(item.Parameters, sp)
	}

	return item
}

// parameters collects one [help.Parameter] per parameter name across all
// sets. A parameter declared identically in every set of a multi-set
// command is collapsed to [help.ParameterSetsAll].
func parameters(cmd Command) []help.Parameter {
	var (
		out   []help.Parameter
		index = map[string]int{}
	)

	for _, set := range cmd.ParameterSets {
		for _, p := range documented(cmd, set.Parameters) {
			ps := help.ParameterSet{
				Name:                            setName(set.Name),
				Position:                        position(p),
				IsRequired:                      p.IsMandatory,
				ValueFromPipeline:               p.ValueFromPipeline,
				ValueFromPipelineByPropertyName: p.ValueFromPipelineByPropertyName,
				ValueFromRemainingArguments:     p.ValueFromRemainingArguments,
			}

			key := strings.ToLower(p.Name)
			if i, ok := index[key]; ok {
				out[i].ParameterSets = append(out[i].ParameterSets, ps)

				continue
			}

			index[key] = len(out)
			out = append(out, help.Parameter{
				Name:              p.Name,
				Type:              p.ParameterType,
				DefaultValue:      p.DefaultValue,
				HelpMessage:       p.HelpMessage,
				Aliases:           slices.Clone(p.Aliases),
				AcceptedValues:    slices.Clone(p.ValidateSet),
				SupportsWildcards: p.SupportsWildcards,
				DontShow:          p.DontShow,
				ParameterSets:     []help.ParameterSet{ps},
			})
		}
	}

	for i := range out {
		p := &out[i]
		if len(cmd.ParameterSets) > 1 && len(p.ParameterSets) == len(cmd.ParameterSets) && uniform(p.ParameterSets) {
			all := p.ParameterSets[0]
			all.Name = help.ParameterSetsAll
			p.ParameterSets = []help.ParameterSet{all}
		}

		p.Position = help.PositionNamed
		p.DeriveRequired()
	}

	return out
}

// uniform reports whether every set record carries the same attributes.
func uniform(sets []help.ParameterSet) bool {
	first := sets[0]
	for _, s := range sets[1:] {
		s.Name = first.Name
		if s != first {
			return false
		}
	}

	return true
}

func position(p Parameter) string {
	if !p.IsPositional() {
		return help.PositionNamed
	}

	return strconv.Itoa(*p.Position)
}

func lookupFold(m map[string]string, key string) string {
	if v, ok := m[key]; ok {
		return v
	}

	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}

	return ""
}

// shortTypeName drops the namespace of a type name.
func shortTypeName(t string) string {
	t = strings.TrimSpace(t)
	if i := strings.LastIndexByte(t, '.'); i >= 0 {
		return t[i+1:]
	}

	return t
}

// syntaxTypeName converts a .NET type name to the short form used in
// syntax lines, for example "System.Nullable`1[System.Int32]" becomes
// "Nullable<Int32>" and "System.String[]" becomes "String[]".
func syntaxTypeName(t string) string {
	t = strings.TrimSpace(t)

	tick := strings.IndexByte(t, '`')
	if tick < 0 {
		return shortTypeName(t)
	}

	open := strings.IndexByte(t[tick:], '[')
	if open < 0 || !strings.HasSuffix(t, "]") {
		return shortTypeName(t[:tick])
	}

	open += tick
	inner := t[open+1 : len(t)-1]
	suffix := ""

	// A trailing "[]" makes the generic itself an array.
	if strings.HasSuffix(inner, "][") {
		inner = strings.TrimSuffix(inner, "][")
		suffix = "[]"
	}

	args := splitTypeArgs(inner)
	for i, a := range args {
		a = strings.TrimSpace(a)

		// Assembly-qualified arguments are bracketed: [System.String, mscorlib].
		if strings.HasPrefix(a, "[") && strings.HasSuffix(a, "]") {
			a = a[1 : len(a)-1]
			if j := strings.IndexByte(a, ','); j >= 0 && !strings.Contains(a[:j], "[") {
				a = a[:j]
			}
		}

		args[i] = syntaxTypeName(a)
	}

	return shortTypeName(t[:tick]) + "<" + strings.Join(args, ", ") + ">" + suffix
}

// splitTypeArgs splits generic arguments on top-level commas.
func splitTypeArgs(s string) []string {
	var (
		out   []string
		depth int
		start int
	)

	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}

	return append(out, s[start:])
}
