//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"gochat/internal/chat/delivery"
	"gochat/internal/chat/handler"
	"gochat/internal/chat/service"
	"gochat/internal/user"
)

var storageSet = wire.NewSet(
	ProvideDatabaseConnection,
	ProvideMongo,
	ProvideMessageRepository,
	ProvideMediaStorage,
	ProvideImageHost,
	ProvideMediaServer,
)

var deliverySet = wire.NewSet(
	ProvideRedis,
	ProvideInstanceID,
	ProvidePresence,
	ProvideRelay,
	ProvideObserverHub,
	delivery.NewRegistry,
	ProvideDispatcher,
	ProvideDeliveryHandler,
	ProvideNotifier,
	ProvideOnlineLister,
)

var userSet = wire.NewSet(
	user.NewUserRepository,
	user.NewFriendRepository,
	ProvideUserDirectory,
	ProvideTokenManager,
	user.NewUserService,
	user.NewHandler,
)

var chatSet = wire.NewSet(
	service.NewMessageStore,
	ProvideMediaConfig,
	service.NewChatService,
	handler.NewChatHandler,
	ProvideRateLimiter,
)

// InitializeChatService builds the chat app. The returned cleanup closes
// every connection the providers opened, in reverse order.
func InitializeChatService() (*ChatApp, func(), error) {
	wire.Build(
		ProvideConfig,
		ProvideLogger,
		ProvideMetrics,
		storageSet,
		deliverySet,
		userSet,
		chatSet,
		wire.Struct(new(ChatApp), "*"),
	)
	return nil, nil, nil
}
