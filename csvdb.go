package CsvDB

import (
	"github.com/jstrand/CsvDB/core"
	"github.com/jstrand/CsvDB/dataset"
	"github.com/jstrand/CsvDB/db"
	"github.com/jstrand/CsvDB/store"
)

type Instance struct {
	Store *store.Store
}

func Open(st *store.Store) *Instance {
	return &Instance{
		Store: st,
	}
}

func (instance *Instance) Session(identity core.Identity) *db.Session {
	return db.NewSession(instance.Store, identity)
}

func (instance *Instance) Loader() *dataset.Loader {
	return dataset.NewLoader(instance.Store)
}
