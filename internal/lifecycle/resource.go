package lifecycle

import "sort"

// ColumnKind describes how a status is stored.
type ColumnKind int

const (
	// TextColumn stores the status name in a text column.
	TextColumn ColumnKind = iota
	// ActiveFlag stores active/inactive as a boolean column.
	ActiveFlag
)

// Resource describes one admin-managed table. Identifiers here never come from user input.
type Resource struct {
	Name     string
	Table    string
	Column   string
	Kind     ColumnKind
	Statuses Enumeration
	// Label names a single record in notifications, e.g. "Job posting".
	Label string
	// Subject names the record when toggling an active flag, e.g. "Project".
	Subject string
}

// Value converts a status into the value stored in the status column.
func (r Resource) Value(s Status) any {
	if r.Kind == ActiveFlag {
		return s == StatusActive
	}
	return string(s)
}

// ActiveStatus maps a stored active flag back to its status.
func ActiveStatus(active bool) Status {
	if active {
		return StatusActive
	}
	return StatusInactive
}

var (
	activeFlags = NewEnumeration(StatusActive, StatusInactive)

	Bookings = Resource{
		Name:     "bookings",
		Table:    "bookings",
		Column:   "status",
		Kind:     TextColumn,
		Statuses: NewEnumeration(StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled),
		Label:    "Booking",
	}
	Orders = Resource{
		Name:     "orders",
		Table:    "orders",
		Column:   "status",
		Kind:     TextColumn,
		Statuses: NewEnumeration(StatusPending, StatusInProgress, StatusCompleted, StatusCancelled),
		Label:    "Order",
	}
	JobApplications = Resource{
		Name:     "job_applications",
		Table:    "job_applications",
		Column:   "status",
		Kind:     TextColumn,
		Statuses: NewEnumeration(StatusPending, StatusReviewing, StatusInterviewed, StatusRejected, StatusHired),
		Label:    "Application",
	}
	JobPostings = Resource{
		Name:     "job_postings",
		Table:    "job_postings",
		Column:   "is_active",
		Kind:     ActiveFlag,
		Statuses: activeFlags,
		Label:    "Job posting",
		Subject:  "Job",
	}
	PortfolioItems = Resource{
		Name:     "portfolio_items",
		Table:    "portfolio_items",
		Column:   "is_active",
		Kind:     ActiveFlag,
		Statuses: activeFlags,
		Label:    "Portfolio item",
		Subject:  "Project",
	}
	TeamMembers = Resource{
		Name:     "team_members",
		Table:    "team_members",
		Column:   "is_active",
		Kind:     ActiveFlag,
		Statuses: activeFlags,
		Label:    "Team member",
		Subject:  "Team member",
	}
	Services = Resource{
		Name:     "services",
		Table:    "services",
		Column:   "is_active",
		Kind:     ActiveFlag,
		Statuses: activeFlags,
		Label:    "Service",
		Subject:  "Service",
	}
)

var registry = map[string]Resource{
	Bookings.Name:        Bookings,
	Orders.Name:          Orders,
	JobApplications.Name: JobApplications,
	JobPostings.Name:     JobPostings,
	PortfolioItems.Name:  PortfolioItems,
	TeamMembers.Name:     TeamMembers,
	Services.Name:        Services,
}

// Lookup returns the registered resource with the given name.
func Lookup(name string) (Resource, bool) {
	r, ok := registry[name]
	return r, ok
}

// Resources lists the registry sorted by name.
func Resources() []Resource {
	out := make([]Resource, 0, len(registry))
	for _, r := range registry {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
