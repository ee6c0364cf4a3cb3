package mapper

import (
	"encoding/json"

	"ai-recall-be/internal/entity"
	"ai-recall-be/internal/model"

	"gorm.io/datatypes"
)

type TweetThreadMapper struct{}

func NewTweetThreadMapper() *TweetThreadMapper {
	return &TweetThreadMapper{}
}

func (m *TweetThreadMapper) ToEntity(t *model.TweetThread) *entity.TweetThread {
	if t == nil {
		return nil
	}
	return &entity.TweetThread{
		Id:                t.Id,
		RootTweetID:       t.RootTweetID,
		AuthorUsername:    t.AuthorUsername,
		AuthorDisplayName: t.AuthorDisplayName,
		Title:             t.Title,
		TweetCount:        t.TweetCount,
		CreatedAt:         t.CreatedAt,
	}
}

func (m *TweetThreadMapper) ToModel(t *entity.TweetThread) *model.TweetThread {
	if t == nil {
		return nil
	}
	return &model.TweetThread{
		Id:                t.Id,
		RootTweetID:       t.RootTweetID,
		AuthorUsername:    t.AuthorUsername,
		AuthorDisplayName: t.AuthorDisplayName,
		Title:             t.Title,
		TweetCount:        t.TweetCount,
		CreatedAt:         t.CreatedAt,
	}
}

func (m *TweetThreadMapper) ToEntities(threads []*model.TweetThread) []*entity.TweetThread {
	entities := make([]*entity.TweetThread, len(threads))
	for i, t := range threads {
		entities[i] = m.ToEntity(t)
	}
	return entities
}

type TweetMapper struct{}

func NewTweetMapper() *TweetMapper {
	return &TweetMapper{}
}

func (m *TweetMapper) ToEntity(t *model.Tweet) *entity.Tweet {
	if t == nil {
		return nil
	}

	var mediaURLs []string
	if len(t.MediaURLs) > 0 {
		// Malformed rows degrade to no media rather than failing the read
		_ = json.Unmarshal(t.MediaURLs, &mediaURLs)
	}

	return &entity.Tweet{
		Id:               t.Id,
		TweetID:          t.TweetID,
		Content:          t.Content,
		ContentHash:      t.ContentHash,
		Embedding:        vectorToSlice(t.Embedding),
		MediaURLs:        mediaURLs,
		ThreadId:         t.ThreadId,
		PositionInThread: t.PositionInThread,
		TweetedAt:        t.TweetedAt,
		CreatedAt:        t.CreatedAt,
	}
}

func (m *TweetMapper) ToModel(t *entity.Tweet) *model.Tweet {
	if t == nil {
		return nil
	}

	var mediaJSON datatypes.JSON
	if t.MediaURLs != nil {
		if raw, err := json.Marshal(t.MediaURLs); err == nil {
			mediaJSON = raw
		}
	}

	return &model.Tweet{
		Id:               t.Id,
		TweetID:          t.TweetID,
		Content:          t.Content,
		ContentHash:      t.ContentHash,
		Embedding:        sliceToVector(t.Embedding),
		MediaURLs:        mediaJSON,
		ThreadId:         t.ThreadId,
		PositionInThread: t.PositionInThread,
		TweetedAt:        t.TweetedAt,
		CreatedAt:        t.CreatedAt,
	}
}

func (m *TweetMapper) ToEntities(tweets []*model.Tweet) []*entity.Tweet {
	entities := make([]*entity.Tweet, len(tweets))
	for i, t := range tweets {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
