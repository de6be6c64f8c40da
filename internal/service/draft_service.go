package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// 草稿保留7天，够跨设备续写，也不会永久占着Redis
const draftTTL = 7 * 24 * time.Hour

// DraftService 作答草稿的Redis暂存。草稿是易失数据，丢了
// 不影响任何已落库的记录，所以不进MySQL。
type DraftService struct {
	redis *redis.Client
}

func NewDraftService(rdb *redis.Client) *DraftService {
	return &DraftService{redis: rdb}
}

type Draft struct {
	QuestionID uint      `json:"questionId"`
	Text       string    `json:"text"`
	SavedAt    time.Time `json:"savedAt"`
}

func draftKey(userID uint) string {
	return fmt.Sprintf("draft:%d", userID)
}

func (s *DraftService) Save(ctx context.Context, userID uint, questionID uint, text string) error {
	draft := Draft{QuestionID: questionID, Text: text, SavedAt: time.Now()}
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, draftKey(userID), data, draftTTL).Err()
}

// Get 没有草稿时返回 (nil, nil)
func (s *DraftService) Get(ctx context.Context, userID uint) (*Draft, error) {
	data, err := s.redis.Get(ctx, draftKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *DraftService) Clear(ctx context.Context, userID uint) error {
	return s.redis.Del(ctx, draftKey(userID)).Err()
}
