package elisa

import (
	"fmt"
	"testing"
)

// Entity Benchmarks
func BenchmarkEntityAdd(b *testing.B) {
	types := setupTypes(b)
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		name := fmt.Sprintf("%dK", size/1000)
		b.Run(name, func(b *testing.B) {
			comps := make([]*Component, size)
			b.ReportAllocs()
			for b.Loop() {
				b.StopTimer()
				for i := range comps {
					comps[i] = mustComponent(b, types.position)
				}
				b.StartTimer()
				for i := 0; i < size; i++ {
					_, _ = NewEntity().Add(comps[i])
				}
			}
		})
	}
}

func BenchmarkEntityGetOfType(b *testing.B) {
	types := setupTypes(b)
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		name := fmt.Sprintf("%dK", size/1000)
		b.Run(name, func(b *testing.B) {
			entities := make([]*Entity, size)
			for i := range entities {
				entities[i] = NewEntity().
					MustAdd(mustComponent(b, types.position)).
					MustAdd(mustComponent(b, types.velocity))
			}
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				for _, e := range entities {
					_, _ = e.GetOfType(types.velocity)
				}
			}
		})
	}
}

func BenchmarkEntityAt(b *testing.B) {
	types := setupTypes(b)
	e := NewEntity().
		MustAdd(mustComponent(b, types.position)).
		MustAdd(mustComponent(b, types.velocity)).
		MustAdd(mustComponent(b, types.health))
	b.ReportAllocs()
	for b.Loop() {
		for i := 0; i < e.Len(); i++ {
			_, _ = e.At(i)
		}
	}
}

// World Benchmarks
func BenchmarkWorldCreateEntity(b *testing.B) {
	sizes := []int{1000, 10000, 100000, 1000000}
	for _, size := range sizes {
		name := fmt.Sprintf("%dK", size/1000)
		if size == 1000000 {
			name = "1M"
		}
		b.Run(name, func(b *testing.B) {
			for b.Loop() {
				b.StopTimer()
				w := NewWorld(WithCapacity(size))
				b.StartTimer()
				for i := 0; i < size; i++ {
					w.CreateEntity()
				}
			}
			b.ReportAllocs()
		})
	}
}

func BenchmarkWorldTick(b *testing.B) {
	setupTypes(b)
	pos := NewKind[Position]("position")
	vel := NewKind[Velocity]("velocity")
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		name := fmt.Sprintf("%dK", size/1000)
		b.Run(name, func(b *testing.B) {
			w := NewWorld(WithCapacity(size))
			for i := 0; i < size; i++ {
				w.CreateEntity().
					MustAdd(pos.New(Position{})).
					MustAdd(vel.New(Velocity{VX: 1, VY: 1}))
			}
			_ = w.AddSystem(SystemFunc(func(dt float64, entities []*Entity) {
				f := NewFilter(entities, pos.Type(), vel.Type())
				for f.Next() {
					p, _ := pos.From(f.Get(pos.Type()))
					v, _ := vel.From(f.Get(vel.Type()))
					p.X += v.VX * float32(dt)
					p.Y += v.VY * float32(dt)
				}
			}))
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				_ = w.Tick(0.016)
			}
		})
	}
}
