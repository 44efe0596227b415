package help

// ModuleFileInfo is the model of a module landing page.
type ModuleFileInfo struct {
	Metadata    *Metadata
	Diagnostics *Diagnostics

	Title       string
	Module      string
	ModuleGUID  string
	Locale      string
	Description string

	CommandGroups []ModuleCommandGroup
}

// NewModuleFileInfo returns an empty [ModuleFileInfo].
func NewModuleFileInfo(title, module, locale string) *ModuleFileInfo {
	return &ModuleFileInfo{
		Title:       title,
		Module:      module,
		Locale:      locale,
		Metadata:    NewMetadata(),
		Diagnostics: &Diagnostics{},
	}
}

// Commands returns every command across all groups, in document order.
func (m *ModuleFileInfo) Commands() []ModuleCommandInfo {
	var out []ModuleCommandInfo
	for _, g := range m.CommandGroups {
		out = append(out, g.Commands...)
	}

	return out
}

// ModuleCommandGroup is a named group of commands on a module page.
type ModuleCommandGroup struct {
	GroupTitle string
	Commands   []ModuleCommandInfo
}

// ModuleCommandInfo is one command entry on a module page.
type ModuleCommandInfo struct {
	Name        string
	Link        string
	Description string
}
