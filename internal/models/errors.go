package models

import (
	"errors"
)

var (
	ErrNoFiles            = errors.New("please add some files first")
	ErrAllAnalyzed        = errors.New("all files have already been analyzed")
	ErrAnalysisInProgress = errors.New("an analysis is already in progress")
)
