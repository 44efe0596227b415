package helpmd

import (
	"fmt"
	"strings"

	"go.jacobcolvin.com/platyps/help"
	"go.jacobcolvin.com/platyps/markdown"
)

const moduleDescriptionSection = "Description"

// ParseModuleFile reads a module landing page: front matter, a level-1
// title, a "Description" section, and one level-2 group per command list
// where each level-3 heading links to a command page and is followed by
// that command's synopsis.
//
// Only missing front matter is an error. A missing title falls back to the
// "title" metadata key with a ModuleFileTitle diagnostic.
func ParseModuleFile(src []byte) (*help.ModuleFileInfo, error) {
	doc := markdown.NewDocument(src)

	md, next, err := ExtractMetadata(doc)
	if err != nil {
		return nil, err
	}

	info := help.NewModuleFileInfo("", md.String(help.MetaModuleName), md.String(help.MetaLocale))
	info.Metadata = md
	info.ModuleGUID = md.String(help.MetaModuleGUID)

	cur := doc.Cursor()
	cur.Seek(next - 1)

	titleIdx := cur.FindHeader(1, "")
	if titleIdx >= 0 {
		info.Title = strings.TrimSpace(doc.Block(titleIdx).Text)
	}

	if info.Title == "" {
		info.Title = md.String(help.MetaTitle)
		info.Diagnostics.Add(help.SourceModuleFileTitle, "Module title not found.",
			help.SeverityWarning, info.Title, cur.TextLine(titleIdx))
	}

	if titleIdx < 0 {
		titleIdx = next - 1
	}

	r := &sectionReader{doc: doc, cur: cur, titleIdx: titleIdx}

	start, end := r.find(moduleDescriptionSection)
	if start < 0 {
		info.Diagnostics.Add(help.SourceModuleFileDescription, "Description header not found.",
			help.SeverityWarning, moduleDescriptionSection, help.NoLine)
	} else {
		info.Description = r.body(start, end)
	}

	cur.Seek(titleIdx)

	var groups []int

	for {
		i := cur.FindHeader(2, "")
		if i < 0 {
			break
		}

		if !strings.EqualFold(strings.TrimSpace(doc.Block(i).Text), moduleDescriptionSection) {
			groups = append(groups, i)
		}

		cur.Seek(i)
	}

	for _, g := range groups {
		// A group ends at the next level-2 heading, even the Description.
		cur.Seek(g)
		groupEnd := cur.FindHeader(2, "")

		group := help.ModuleCommandGroup{GroupTitle: strings.TrimSpace(doc.Block(g).Text)}

		for _, h := range r.headings(3, g, groupEnd) {
			group.Commands = append(group.Commands, moduleCommand(r, info, h, r.nextHeading(h, groupEnd)))
		}

		info.CommandGroups = append(info.CommandGroups, group)
	}

	return info, nil
}

func moduleCommand(r *sectionReader, info *help.ModuleFileInfo, h, end int) help.ModuleCommandInfo {
	b := r.doc.Block(h)

	cmd := help.ModuleCommandInfo{
		Name:        strings.TrimSpace(b.Text),
		Description: r.body(h, end),
	}

	links := r.doc.Links(b)
	if len(links) == 0 {
		info.Diagnostics.Add(help.SourceModuleFileCommand,
			fmt.Sprintf("Command %q has no link.", cmd.Name),
			help.SeverityWarning, cmd.Name, r.cur.TextLine(h))

		return cmd
	}

	cmd.Link = links[0].URL
	if links[0].Text != "" {
		cmd.Name = links[0].Text
	}

	return cmd
}
