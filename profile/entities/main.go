// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/edwinsyarief/elisa"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

var (
	kind1 = elisa.NewKind[comp1]("comp1")
	kind2 = elisa.NewKind[comp2]("comp2")
)

func main() {
	count := 50
	iters := 100
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		w := elisa.NewWorld(elisa.WithCapacity(numEntities))
		batch := elisa.NewBuilder(w, kind1)

		for range iters {
			for _, e := range batch.NewEntitiesWithValueSet(numEntities, comp1{V: 1}) {
				e.MustAdd(kind2.New(comp2{V: 2}))
			}
			f := elisa.NewFilter(w.Entities(), kind1.Type(), kind2.Type())
			for f.Next() {
				e := f.Entity()
				c1, _ := kind1.Get(e)
				c2, _ := kind2.Get(e)
				c1.V += c2.V
				c1.W += c2.W
			}
			query := elisa.NewQuery(w.Entities(), kind1)
			for query.Next() {
				query.Get().W++
			}
			w.Clear()
		}
	}
}
