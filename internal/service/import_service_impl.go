package service

import (
	"context"
	"fmt"

	"github.com/martivergara/pressupost/internal/bc3"
	"github.com/martivergara/pressupost/internal/domain"
	"github.com/martivergara/pressupost/internal/merge"
)

type importService struct {
	instrumented
}

func NewImportService(observers ...UseCaseObserver) ImportService {
	return &importService{instrumented{useCaseObserverOrNoop(observers)}}
}

func (s *importService) Start(ctx context.Context, ws Workspace, raw []byte) (session *merge.Session, err error) {
	fields := map[string]any{"bytes": len(raw)}
	defer s.observe(ctx, "import-start", fields, &err)()

	result, err := bc3.Decode(bc3.DecodeBytes(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding interchange data: %w", err)
	}
	fields["chapters"] = len(result.Chapters)
	fields["prices"] = len(result.Prices)

	session = merge.Begin(ws.Budget.Chapters, result.Chapters, result.Prices)
	fields["duplicates"] = len(session.Duplicates())
	return session, nil
}

func (s *importService) Finalize(ctx context.Context, ws Workspace, session *merge.Session) (out Workspace, err error) {
	defer s.observe(ctx, "import-finalize", nil, &err)()

	chapters, prices, err := session.Finalize(ws.Prices)
	if err != nil {
		return ws, err
	}
	budget := &domain.Budget{ID: ws.Budget.ID, Name: ws.Budget.Name, Chapters: chapters}
	return Workspace{Budget: budget, Prices: prices}, nil
}
