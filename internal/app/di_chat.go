package app

import (
	"context"
	"fmt"

	chatHTTP "github.com/allisson/chatapi/internal/chat/http"
	chatRepository "github.com/allisson/chatapi/internal/chat/repository"
	chatUseCase "github.com/allisson/chatapi/internal/chat/usecase"
	apperrors "github.com/allisson/chatapi/internal/errors"
	"github.com/allisson/chatapi/internal/genai"
	modelsHTTP "github.com/allisson/chatapi/internal/models/http"
)

// GenAIClient returns the generation API client.
func (c *Container) GenAIClient() (*genai.Client, error) {
	var err error
	c.genaiClientInit.Do(func() {
		c.genaiClient, err = c.initGenAIClient()
		if err != nil {
			c.initErrors["genaiClient"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["genaiClient"]; exists {
		return nil, storedErr
	}
	return c.genaiClient, nil
}

// ConversationRepository returns the conversation repository.
func (c *Container) ConversationRepository(ctx context.Context) (chatUseCase.ConversationRepository, error) {
	var err error
	c.conversationRepoInit.Do(func() {
		c.conversationRepo, err = c.initConversationRepository(ctx)
		if err != nil {
			c.initErrors["conversationRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["conversationRepo"]; exists {
		return nil, storedErr
	}
	return c.conversationRepo, nil
}

// StreamUseCase returns the chat streaming use case.
func (c *Container) StreamUseCase(ctx context.Context) (chatUseCase.StreamUseCase, error) {
	var err error
	c.streamUseCaseInit.Do(func() {
		c.streamUseCase, err = c.initStreamUseCase(ctx)
		if err != nil {
			c.initErrors["streamUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["streamUseCase"]; exists {
		return nil, storedErr
	}
	return c.streamUseCase, nil
}

// ConversationUseCase returns the conversation management use case.
func (c *Container) ConversationUseCase(ctx context.Context) (chatUseCase.ConversationUseCase, error) {
	var err error
	c.conversationUseCaseInit.Do(func() {
		c.conversationUseCase, err = c.initConversationUseCase(ctx)
		if err != nil {
			c.initErrors["conversationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["conversationUseCase"]; exists {
		return nil, storedErr
	}
	return c.conversationUseCase, nil
}

// ChatHandler returns the chat streaming HTTP handler.
func (c *Container) ChatHandler(ctx context.Context) (*chatHTTP.ChatHandler, error) {
	var err error
	c.chatHandlerInit.Do(func() {
		c.chatHandler, err = c.initChatHandler(ctx)
		if err != nil {
			c.initErrors["chatHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["chatHandler"]; exists {
		return nil, storedErr
	}
	return c.chatHandler, nil
}

// ConversationHandler returns the conversation management HTTP handler.
func (c *Container) ConversationHandler(ctx context.Context) (*chatHTTP.ConversationHandler, error) {
	var err error
	c.conversationHandlerInit.Do(func() {
		c.conversationHandler, err = c.initConversationHandler(ctx)
		if err != nil {
			c.initErrors["conversationHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["conversationHandler"]; exists {
		return nil, storedErr
	}
	return c.conversationHandler, nil
}

// ModelsHandler returns the model catalog HTTP handler.
func (c *Container) ModelsHandler() (*modelsHTTP.ModelsHandler, error) {
	var err error
	c.modelsHandlerInit.Do(func() {
		c.modelsHandler, err = c.initModelsHandler()
		if err != nil {
			c.initErrors["modelsHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["modelsHandler"]; exists {
		return nil, storedErr
	}
	return c.modelsHandler, nil
}

// initGenAIClient creates the generation API client.
func (c *Container) initGenAIClient() (*genai.Client, error) {
	if c.config.GenAIAPIKey == "" {
		return nil, apperrors.New("GENAI_API_KEY must be set")
	}

	return genai.NewClient(genai.Config{
		APIKey:         c.config.GenAIAPIKey,
		BaseURL:        c.config.GenAIBaseURL,
		DefaultModel:   c.config.GenAIDefaultModel,
		RequestTimeout: c.config.GenAIRequestTimeout,
		RequestsPerSec: c.config.GenAIRequestsPerSec,
		Burst:          c.config.GenAIBurst,
	}, c.Logger()), nil
}

// initConversationRepository creates the conversation repository for the
// configured database driver.
func (c *Container) initConversationRepository(ctx context.Context) (chatUseCase.ConversationRepository, error) {
	db, err := c.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get database for conversation repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return chatRepository.NewMySQLConversationRepository(db), nil
	case "postgres":
		return chatRepository.NewPostgreSQLConversationRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initStreamUseCase creates the streaming use case with metrics decoration.
func (c *Container) initStreamUseCase(ctx context.Context) (chatUseCase.StreamUseCase, error) {
	txManager, err := c.TxManager(ctx)
	if err != nil {
		return nil, err
	}

	conversationRepo, err := c.ConversationRepository(ctx)
	if err != nil {
		return nil, err
	}

	generator, err := c.GenAIClient()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	useCase := chatUseCase.NewStreamUseCase(
		txManager,
		conversationRepo,
		generator,
		c.config.ChatHistoryLimit,
		c.Logger(),
	)

	return chatUseCase.NewStreamUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initConversationUseCase creates the conversation use case with metrics decoration.
func (c *Container) initConversationUseCase(ctx context.Context) (chatUseCase.ConversationUseCase, error) {
	conversationRepo, err := c.ConversationRepository(ctx)
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	useCase := chatUseCase.NewConversationUseCase(conversationRepo, c.Logger())

	return chatUseCase.NewConversationUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initChatHandler creates the chat streaming handler.
func (c *Container) initChatHandler(ctx context.Context) (*chatHTTP.ChatHandler, error) {
	streamUseCase, err := c.StreamUseCase(ctx)
	if err != nil {
		return nil, err
	}

	conversationUseCase, err := c.ConversationUseCase(ctx)
	if err != nil {
		return nil, err
	}

	return chatHTTP.NewChatHandler(streamUseCase, conversationUseCase, c.Logger()), nil
}

// initConversationHandler creates the conversation management handler.
func (c *Container) initConversationHandler(ctx context.Context) (*chatHTTP.ConversationHandler, error) {
	conversationUseCase, err := c.ConversationUseCase(ctx)
	if err != nil {
		return nil, err
	}

	return chatHTTP.NewConversationHandler(conversationUseCase, c.Logger()), nil
}

// initModelsHandler creates the model catalog handler backed by the
// generation client.
func (c *Container) initModelsHandler() (*modelsHTTP.ModelsHandler, error) {
	client, err := c.GenAIClient()
	if err != nil {
		return nil, err
	}

	return modelsHTTP.NewModelsHandler(client, c.Logger()), nil
}
