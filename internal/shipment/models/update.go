package models

import "fmt"

// Update is a "section saved" event carrying a full replacement value.
// Exactly the field matching Section is read; use the constructors below.
type Update struct {
	Section Section

	origin      OriginSection
	preArrival  PreArrivalSection
	terminal    TerminalShippingSection
	customs     CustomsRegulatorySection
	transport   TransportDeliverySection
	containers  []Container
	team        TeamDocumentationSection
	performance PerformanceControlStages
	bankClosure BankClosureSection
}

func OriginSaved(v OriginSection) Update {
	return Update{Section: SectionOrigin, origin: v}
}

func PreArrivalSaved(v PreArrivalSection) Update {
	return Update{Section: SectionPreArrival, preArrival: v}
}

func TerminalSaved(v TerminalShippingSection) Update {
	return Update{Section: SectionTerminal, terminal: v}
}

func CustomsSaved(v CustomsRegulatorySection) Update {
	return Update{Section: SectionCustoms, customs: v}
}

// TransportSaved replaces the transport section and the container list.
func TransportSaved(v TransportDeliverySection, containers []Container) Update {
	return Update{
		Section:    SectionTransport,
		transport:  v,
		containers: append([]Container{}, containers...),
	}
}

func TeamDocumentationSaved(v TeamDocumentationSection) Update {
	return Update{Section: SectionTeamDocumentation, team: v}
}

func PerformanceControlSaved(v PerformanceControlStages) Update {
	return Update{Section: SectionPerformanceControl, performance: v}
}

func BankClosureSaved(v BankClosureSection) Update {
	return Update{Section: SectionBankClosure, bankClosure: v}
}

// Containers returns the container list of a transport update.
func (u Update) Containers() []Container {
	return append([]Container{}, u.containers...)
}

// Validate checks entry rules that belong to the update itself.
func (u Update) Validate() error {
	switch u.Section {
	case SectionOrigin, SectionPreArrival, SectionTerminal, SectionCustoms,
		SectionTeamDocumentation, SectionPerformanceControl, SectionBankClosure:
		return nil
	case SectionTransport:
		return ValidateContainers(u.containers)
	default:
		return fmt.Errorf("unknown section %q", u.Section)
	}
}

// ApplyTo returns a copy of s with the section replaced. s is not modified.
func (u Update) ApplyTo(s Shipment) Shipment {
	out := s.Clone()
	switch u.Section {
	case SectionOrigin:
		v := u.origin
		out.Origin = &v
	case SectionPreArrival:
		v := u.preArrival
		out.PreArrival = &v
	case SectionTerminal:
		v := u.terminal
		out.Terminal = &v
	case SectionCustoms:
		v := u.customs
		out.Customs = &v
	case SectionTransport:
		v := u.transport
		out.Transport = &v
		out.Containers = u.Containers()
	case SectionTeamDocumentation:
		v := u.team
		out.Team = &v
	case SectionPerformanceControl:
		v := u.performance
		out.Performance = &v
	case SectionBankClosure:
		v := u.bankClosure
		out.BankClosure = &v
	}
	return out
}
