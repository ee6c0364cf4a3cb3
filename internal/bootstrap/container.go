package bootstrap

import (
	"time"

	"ai-recall-be/internal/config"
	"ai-recall-be/internal/controller"
	"ai-recall-be/internal/pkg/logger"
	"ai-recall-be/internal/repository/unitofwork"
	"ai-recall-be/internal/service"
	"ai-recall-be/pkg/embedding"
	"ai-recall-be/pkg/fetcher"
	"ai-recall-be/pkg/llm/openai"
	"ai-recall-be/pkg/twitter"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NotebookController   controller.INotebookController
	BookController       controller.IBookController
	NoteController       controller.INoteController
	URLController        controller.IURLController
	TweetController      controller.ITweetController
	ContentController    controller.IContentController
	EvaluationController controller.IEvaluationController

	// Background services, run by main
	EvaluationService service.IEvaluationService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// Providers
	embeddingProvider := embedding.NewOpenAIProvider(
		cfg.OpenAI.ApiKey,
		cfg.OpenAI.EmbeddingModel,
		cfg.OpenAI.EmbeddingDimension,
	)
	llmProvider := openai.NewOpenAIProvider(cfg.OpenAI.ApiKey, cfg.OpenAI.LLMModel)
	evaluatorProvider := openai.NewOpenAIProvider(cfg.OpenAI.ApiKey, cfg.OpenAI.EvaluationModel)

	// Content fetchers
	urlFetcher := fetcher.New(
		time.Duration(cfg.Ingest.URLFetchTimeout)*time.Second,
		cfg.Ingest.MaxURLContentSize,
	)
	twitterClient := twitter.NewClient(
		cfg.Twitter.BearerToken,
		time.Duration(cfg.Twitter.FetchTimeout)*time.Second,
	)

	// Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.EvaluationTopicName)

	notebookService := service.NewNotebookService(uowFactory, embeddingProvider, sysLogger)
	urlService := service.NewURLService(
		uowFactory,
		urlFetcher,
		llmProvider,
		embeddingProvider,
		cfg.Ingest.ChunkMaxSize,
		cfg.Ingest.SummaryWindow,
		sysLogger,
	)
	tweetService := service.NewTweetService(
		uowFactory,
		twitterClient,
		llmProvider,
		embeddingProvider,
		cfg.Twitter.MaxThreadDepth,
		sysLogger,
	)
	randomService := service.NewRandomService(uowFactory, sysLogger)
	searchService := service.NewSearchService(uowFactory, embeddingProvider, sysLogger)
	contextService := service.NewContextService(
		uowFactory,
		randomService,
		llmProvider,
		publisherService,
		sysLogger,
	)
	evaluationService := service.NewEvaluationService(
		pubSub,
		cfg.App.EvaluationTopicName,
		uowFactory,
		evaluatorProvider,
		cfg.OpenAI.EvaluationModel,
		sysLogger,
	)

	return &Container{
		NotebookController:   controller.NewNotebookController(notebookService),
		BookController:       controller.NewBookController(notebookService),
		NoteController:       controller.NewNoteController(notebookService, contextService),
		URLController:        controller.NewURLController(urlService),
		TweetController:      controller.NewTweetController(tweetService),
		ContentController:    controller.NewContentController(contextService, searchService),
		EvaluationController: controller.NewEvaluationController(evaluationService),
		EvaluationService:    evaluationService,
		Logger:               sysLogger,
	}
}
