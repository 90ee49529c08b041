package workflow

import "parish-registry/registry-backend/internal/documents"

// ProjectorStrategy derives the document status written after each workflow
// mutation. One implementation per registry variant; the variants share the
// routing rule and differ on resolution.
type ProjectorStrategy interface {
	// OnRoute returns the status after a new routing step.
	OnRoute(current documents.Status) documents.Status
	// OnResolve returns the status after a resolution outcome was recorded.
	// allCompleted reports whether every step of the document is completed
	// at that point.
	OnResolve(current documents.Status, allCompleted bool) documents.Status
}

// ProjectorFor selects the strategy for a registry variant.
func ProjectorFor(rt documents.RegistryType) ProjectorStrategy {
	if rt == documents.RegistryGeneral {
		return generalRegisterProjector{}
	}
	return documentRegistryProjector{}
}

// routeStatus: first handoff moves a freshly registered document to
// distributed; active documents are left alone; any other status, including
// archived and cancelled, is reopened to in_work. The reopen behavior is
// deliberate (see the projector tests).
func routeStatus(current documents.Status) documents.Status {
	switch current {
	case documents.StatusDraft, documents.StatusRegistered:
		return documents.StatusDistributed
	case documents.StatusInWork, documents.StatusDistributed:
		return current
	default:
		return documents.StatusInWork
	}
}

// generalRegisterProjector resolves the document only once every step is
// completed.
type generalRegisterProjector struct{}

func (generalRegisterProjector) OnRoute(current documents.Status) documents.Status {
	return routeStatus(current)
}

func (generalRegisterProjector) OnResolve(current documents.Status, allCompleted bool) documents.Status {
	if allCompleted {
		return documents.StatusResolved
	}
	if current == documents.StatusInWork || current == documents.StatusDistributed {
		return current
	}
	return documents.StatusInWork
}

// documentRegistryProjector is the flat variant: a single resolution outcome
// resolves the document regardless of other steps.
type documentRegistryProjector struct{}

func (documentRegistryProjector) OnRoute(current documents.Status) documents.Status {
	return routeStatus(current)
}

func (documentRegistryProjector) OnResolve(documents.Status, bool) documents.Status {
	return documents.StatusResolved
}
