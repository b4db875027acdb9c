package memory

// StatusOK — статус исправного сервиса.
const StatusOK = "OK"

// HealthRepository всегда сообщает, что сервис исправен.
type HealthRepository struct{}

// HealthStatus возвращает StatusOK.
func (HealthRepository) HealthStatus() string {
	return StatusOK
}
