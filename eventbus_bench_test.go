package elisa

import (
	"fmt"
	"testing"
)

func BenchmarkEventBusSubscribe(b *testing.B) {
	sizes := []int{1000, 10000, 100000, 1000000}
	for _, size := range sizes {
		name := fmt.Sprintf("%dK", size/1000)
		if size == 1000000 {
			name = "1M"
		}
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				bus := &EventBus{}
				for i := 0; i < size; i++ {
					SubscribeTo(bus, testEvent, func(Message, TestEvent) {})
				}
			}
		})
	}
}

func BenchmarkEventBusPublishNoHandlers(b *testing.B) {
	sizes := []int{1000, 10000, 100000, 1000000}
	for _, size := range sizes {
		name := fmt.Sprintf("%dK", size/1000)
		if size == 1000000 {
			name = "1M"
		}
		b.Run(name, func(b *testing.B) {
			bus := &EventBus{}
			msg := MustMessage(testEvent, TestEvent{Value: 42})
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				for i := 0; i < size; i++ {
					bus.Publish(msg)
				}
			}
		})
	}
}

func BenchmarkEventBusPublishOneHandler(b *testing.B) {
	sizes := []int{1000, 10000, 100000, 1000000}
	for _, size := range sizes {
		name := fmt.Sprintf("%dK", size/1000)
		if size == 1000000 {
			name = "1M"
		}
		b.Run(name, func(b *testing.B) {
			bus := &EventBus{}
			SubscribeTo(bus, testEvent, func(Message, TestEvent) {})
			msg := MustMessage(testEvent, TestEvent{Value: 42})
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				for i := 0; i < size; i++ {
					bus.Publish(msg)
				}
			}
		})
	}
}

func BenchmarkEventBusPublishManyHandlers(b *testing.B) {
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		name := fmt.Sprintf("%dK", size/1000)
		b.Run(name, func(b *testing.B) {
			bus := &EventBus{}
			for i := 0; i < size; i++ {
				SubscribeTo(bus, testEvent, func(Message, TestEvent) {})
			}
			msg := MustMessage(testEvent, TestEvent{Value: 42})
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				bus.Publish(msg)
			}
		})
	}
}

func BenchmarkEventBusPostFlush(b *testing.B) {
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		name := fmt.Sprintf("%dK", size/1000)
		b.Run(name, func(b *testing.B) {
			bus := &EventBus{}
			bus.SubscribeAll(func(Message) {})
			msg := MustMessage(testEvent, TestEvent{Value: 42})
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				for i := 0; i < size; i++ {
					bus.Post(msg)
				}
				bus.Flush()
			}
		})
	}
}
