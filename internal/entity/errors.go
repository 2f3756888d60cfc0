package entity

import "errors"

var (
	ErrCommentsLocked      = errors.New("comments disabled for this post")
	ErrChoiceNotInQuestion = errors.New("choice does not belong to question")
	ErrChoiceNotBinary     = errors.New("only Yes/No allowed")
	ErrQuestionNotInSurvey = errors.New("question does not belong to survey")
	ErrSurveyClosed        = errors.New("survey is not accepting answers")
)

// CheckAnswer validates an answer against data the caller already loaded.
func CheckAnswer(question *Question, choice *Choice) error {
	if choice.QuestionID != question.ID {
		return ErrChoiceNotInQuestion
	}
	if !IsBinaryChoice(choice.Content) {
		return ErrChoiceNotBinary
	}
	return nil
}

// CheckCommentable reports whether a post currently accepts comments.
func CheckCommentable(post *Post) error {
	if post.CommentsLocked {
		return ErrCommentsLocked
	}
	return nil
}
