// Package store реализует key-value хранилище документа платформы.
// Контракт минимальный: get/set строки по фиксированному ключу, без
// транзакций и индексов. Сериализацию документа берёт на себя слой выше.
package store

import "context"

// KeyValueStore синхронное строковое хранилище.
type KeyValueStore interface {
	// Get возвращает значение и признак его наличия.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set записывает значение целиком, перезаписывая предыдущее.
	Set(ctx context.Context, key, value string) error
}
