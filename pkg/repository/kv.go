package repository

import (
	"github.com/m-mizutani/aiphone/pkg/interfaces"
)

var (
	_ interfaces.KVStore = (*Memory)(nil)
	_ interfaces.KVStore = (*SQLite)(nil)
	_ interfaces.KVStore = (*Firestore)(nil)
	_ interfaces.KVStore = (*CloudStorage)(nil)
)
