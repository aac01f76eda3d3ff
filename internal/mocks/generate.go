package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/backfill --output domain/backfill --outpkg backfillmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/playerstats --output domain/playerstats --outpkg playerstatsmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/sweeprun --output domain/sweeprun --outpkg sweeprunmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Provider --dir ../domain/ranking --output domain/ranking --outpkg rankingmock --filename provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name MatchProvider --dir ../usecase --output usecase --outpkg usecasemock --filename match_provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name StatsStore --dir ../usecase --output usecase --outpkg usecasemock --filename stats_store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ClanDirectory --dir ../usecase --output usecase --outpkg usecasemock --filename clan_directory_mock.go
