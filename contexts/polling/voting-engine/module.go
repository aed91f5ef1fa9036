package votingengine

import (
	"log/slog"

	httpadapter "quorum/contexts/polling/voting-engine/adapters/http"
	"quorum/contexts/polling/voting-engine/adapters/memory"
	"quorum/contexts/polling/voting-engine/application/commands"
	"quorum/contexts/polling/voting-engine/application/queries"
	"quorum/contexts/polling/voting-engine/domain/entities"
	"quorum/contexts/polling/voting-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Polls  ports.PollProjection
	Votes  ports.VoteRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	voteUseCase := commands.VoteUseCase{
		Polls:  deps.Polls,
		Votes:  deps.Votes,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	resultsUseCase := queries.ResultsUseCase{
		Polls: deps.Polls,
		Votes: deps.Votes,
		Clock: deps.Clock,
	}
	return Module{
		Handler: httpadapter.Handler{
			Votes:   voteUseCase,
			Results: resultsUseCase,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Vote, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Polls:  store,
		Votes:  store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
