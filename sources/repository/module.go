package repository

import "go.uber.org/fx"

var Module = fx.Module("repository",
	fx.Provide(
		NewChatStateConfig,
		NewDomainsRepository,
		NewTicketsRepository,
		NewCommentsRepository,
		NewSubscribersRepository,
		NewAdminsRepository,
		NewChatStateRepository,
		NewHealthRepository,
	),
)
