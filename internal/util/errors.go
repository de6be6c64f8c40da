package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidGoogleToken = errors.New("invalid google id token")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrAttemptNotFound    = errors.New("attempt not found")

	// 题库在回退扩窗后仍为空时返回，与普通网络错误区分开
	ErrNoQuestionsAvailable = errors.New("no questions available")

	// 提交校验错误，任何一个出现都不会调用评估器
	ErrAnswerTooShort  = errors.New("answer must be at least 10 characters")
	ErrAnswerTooLong   = errors.New("answer must be at most 5000 characters")
	ErrQuestionTooLong = errors.New("question text exceeds 2000 characters")

	// 乐观锁冲突：同一用户并发提交，后写方需要重读重算
	ErrRatingConflict = errors.New("rating was updated concurrently")
)
