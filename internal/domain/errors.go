package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a player has no game session.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrNoActiveGame is returned when an answer arrives before a game was started.
	ErrNoActiveGame = errors.New("no game in progress")
	// ErrGameFinished is returned when an answer arrives after the last question.
	ErrGameFinished = errors.New("game already finished")
	// ErrInvalidScoringMode indicates an unknown scoring mode name.
	ErrInvalidScoringMode = errors.New("invalid scoring mode")
	// ErrTopicNotFound indicates a content source has no text for a topic.
	ErrTopicNotFound = errors.New("topic not found")
	// ErrProgressNotFound indicates no daily progress is stored for a player and date.
	ErrProgressNotFound = errors.New("daily progress not found")
	// ErrDataLoad matches every DataLoadError.
	ErrDataLoad = errors.New("quiz data load failed")
)

// DataLoadError reports the topic whose fetch aborted loading the corpus.
type DataLoadError struct {
	Topic string
	Err   error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load topic %q: %v", e.Topic, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

func (e *DataLoadError) Is(target error) bool {
	return target == ErrDataLoad
}
