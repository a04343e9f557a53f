package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// idLength — длина идентификаторов записей (эскроу, уведомлений, циклов);
// совпадает с size:21 в gorm-моделях.
const idLength = 21

// GenerateNanoID возвращает новый идентификатор записи.
func GenerateNanoID() (string, error) {
	return gonanoid.New(idLength)
}
