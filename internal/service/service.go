package service

import (
	"time"

	"travelChronicle/internal/logger"
	"travelChronicle/internal/repository"
)

type Service struct {
	Post  PostService
	Image ImageService
	Stats StatsService
}

func NewService(rep *repository.Repository, log logger.Logger) *Service {
	return &Service{
		Post:  NewPostService(rep.Post, log, time.Now),
		Image: NewImageService(log),
		Stats: NewStatsService(rep.Post),
	}
}
