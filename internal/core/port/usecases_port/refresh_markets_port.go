package usecases_port

import "context"

type RefreshMarketsUseCase interface {
	Refresh(ctx context.Context) (int, error)
}
