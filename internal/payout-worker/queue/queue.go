package queue

import "sync"

// Queue é a fila FIFO de apostas aguardando liquidação.
// Todas as operações passam pelo mesmo mutex.
type Queue struct {
	mu  sync.Mutex
	ids []string
}

func New() *Queue { return &Queue{} }

// Enqueue adiciona a aposta no fim da fila. Duplicatas são aceitas.
func (q *Queue) Enqueue(betID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, betID)
}

// Dequeue remove a primeira ocorrência da aposta; false se não estava na fila
func (q *Queue) Dequeue(betID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, id := range q.ids {
		if id == betID {
			q.ids = append(q.ids[:i], q.ids[i+1:]...)
			return true
		}
	}
	return false
}

// Peek retorna a cabeça da fila sem remover
func (q *Queue) Peek() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.ids) == 0 {
		return "", false
	}
	return q.ids[0], true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids)
}

// Contains informa se a aposta está na fila
func (q *Queue) Contains(betID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, id := range q.ids {
		if id == betID {
			return true
		}
	}
	return false
}

// Snapshot devolve uma cópia da fila, cabeça primeiro
func (q *Queue) Snapshot() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]string, len(q.ids))
	copy(out, q.ids)
	return out
}
