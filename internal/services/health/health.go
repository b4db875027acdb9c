// Package services реализует проверку состояния сервиса.
package services

// HealthRepository сообщает текущий статус.
type HealthRepository interface {
	HealthStatus() string
}

// HealthService отдаёт статус из репозитория.
type HealthService struct {
	repo HealthRepository
}

// NewHealthService создаёт новый экземпляр HealthService.
func NewHealthService(repo HealthRepository) *HealthService {
	return &HealthService{repo: repo}
}

// Check возвращает статус, например "OK".
func (s *HealthService) Check() string {
	return s.repo.HealthStatus()
}
