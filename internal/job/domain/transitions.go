package domain

// transitions is the one-directional lifecycle graph. QC submission is
// accepted from any pre-QC production state so manufacturers are not
// forced through intermediate states they never reported.
var transitions = map[Status][]Status{
	StatusDraft:        {StatusPosted},
	StatusPosted:       {StatusAssigned},
	StatusAssigned:     {StatusInProduction, StatusQCPending, StatusQCDone},
	StatusInProduction: {StatusQCPending, StatusQCDone},
	StatusQCPending:    {StatusQCDone},
	StatusQCDone:       {StatusAccepted, StatusDisputed},
	StatusAccepted:     {StatusDisputed},
	StatusDisputed:     {StatusResolved},
}

// CanTransition reports whether moving from one status to another follows
// the lifecycle graph.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
