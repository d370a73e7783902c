package interfaces

import (
	"context"

	"github.com/m-ohira/custodian/pkg/domain/model"
)

// TicketStore defines the tracker operations the reconciler needs. The
// implementation classifies provider failures into the types package tags;
// in particular Create and Update carry types.TagInvalidCollection when the
// target collection is rejected.
type TicketStore interface {
	// Search returns tickets under the collection whose summary relates to
	// the given summary text
	Search(ctx context.Context, collection, summary string) ([]model.Ticket, error)

	// Create files a new ticket for the finding under the collection
	Create(ctx context.Context, collection string, finding model.Finding) (*model.Ticket, error)

	// Update rewrites the summary and description of an existing ticket
	Update(ctx context.Context, key string, finding model.Finding) (*model.Ticket, error)
}

// CollectionLister enumerates the collections available in the ticket store
type CollectionLister interface {
	ListCollections(ctx context.Context) ([]model.Collection, error)
}

// CollectionResolver obtains a replacement collection when the store rejects
// the configured one. ChooseCollection may suspend for interactive input.
type CollectionResolver interface {
	CollectionLister

	// ChooseCollection picks one of the candidates and returns its key
	ChooseCollection(ctx context.Context, candidates []model.Collection) (string, error)
}
