package models

import "fmt"

// Update is a "section saved" event for an export file. Build it with the
// constructors below; only the value matching Section is read.
type Update struct {
	Section Section

	order      OrderCommercialSection
	team       TeamDocumentationSection
	stuffing   TransportStuffingSection
	inspection InspectionsCustomsSection
	terminal   TerminalShippingSection
	closing    DocumentsClosingSection
}

func OrderCommercialSaved(v OrderCommercialSection) Update {
	return Update{Section: SectionOrderCommercial, order: v}
}

func TeamDocumentationSaved(v TeamDocumentationSection) Update {
	return Update{Section: SectionTeamDocumentation, team: v}
}

func TransportStuffingSaved(v TransportStuffingSection) Update {
	v.Containers = append([]Container(nil), v.Containers...)
	return Update{Section: SectionTransportStuffing, stuffing: v}
}

func InspectionsCustomsSaved(v InspectionsCustomsSection) Update {
	return Update{Section: SectionInspectionsCustoms, inspection: v}
}

func TerminalShippingSaved(v TerminalShippingSection) Update {
	return Update{Section: SectionTerminalShipping, terminal: v}
}

func DocumentsClosingSaved(v DocumentsClosingSection) Update {
	return Update{Section: SectionDocumentsClosing, closing: v}
}

// Validate checks entry rules that belong to the update itself.
func (u Update) Validate() error {
	switch u.Section {
	case SectionOrderCommercial, SectionTeamDocumentation, SectionInspectionsCustoms,
		SectionTerminalShipping, SectionDocumentsClosing:
		return nil
	case SectionTransportStuffing:
		for _, c := range u.stuffing.Containers {
			if err := c.ValidateSequence(); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown section %q", u.Section)
	}
}

// ApplyTo returns a copy of e with the section replaced.
func (u Update) ApplyTo(e Export) Export {
	out := e.Clone()
	switch u.Section {
	case SectionOrderCommercial:
		v := u.order
		out.OrderCommercial = &v
	case SectionTeamDocumentation:
		v := u.team
		out.TeamDocumentation = &v
	case SectionTransportStuffing:
		v := u.stuffing
		v.Containers = append([]Container(nil), u.stuffing.Containers...)
		out.TransportStuffing = &v
	case SectionInspectionsCustoms:
		v := u.inspection
		out.InspectionsCustoms = &v
	case SectionTerminalShipping:
		v := u.terminal
		out.TerminalShipping = &v
	case SectionDocumentsClosing:
		v := u.closing
		out.DocumentsClosing = &v
	}
	return out
}
