package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/league --output domain/league --outpkg leaguemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Source --dir ../domain/player --output domain/player --outpkg playermock --filename source_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name TrendingSource --dir ../domain/player --output domain/player --outpkg playermock --filename trending_source_mock.go
