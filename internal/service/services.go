package service

import (
	"CliniGoal/internal/service/auth"
	"CliniGoal/internal/service/catalog"
	"CliniGoal/internal/service/enrollment"
	"CliniGoal/internal/service/progress"
	"CliniGoal/internal/service/quiz"
	"CliniGoal/internal/service/review"
)

type Collection struct {
	Auth       *auth.AuthService
	Catalog    *catalog.Service
	Enrollment *enrollment.LedgerService
	Quiz       *quiz.Engine
	Progress   *progress.Service
	Review     *review.Service
}
