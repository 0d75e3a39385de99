package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/league --output domain/league --outpkg leaguemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name MembershipRepository --dir ../domain/league --output domain/league --outpkg leaguemock --filename membership_repository_mock.go
