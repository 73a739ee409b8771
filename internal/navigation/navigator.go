// Package navigation описывает переходы между страницами витрины.
//
// Страницы не пишут редиректы сами: они вызывают Navigator.Push, а
// обработчик после отрисовки фиксирует переход через Recorder.Commit.
package navigation

import "net/http"

const (
	// Home - главная страница с каталогом.
	Home = "/"
	// Login - страница входа.
	Login = "/login"
	// Account - личный кабинет.
	Account = "/account"
)

// Navigator запрашивает переход на другой маршрут.
type Navigator interface {
	Push(path string)
}

// Recorder - навигатор одного запроса. Повторные Push на тот же адрес
// склеиваются, последний адрес фиксируется редиректом.
type Recorder struct {
	destination string
	pushes      int
}

// NewRecorder создаёт пустой Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Push запоминает адрес перехода.
func (r *Recorder) Push(path string) {
	if path == r.destination {
		return
	}
	r.destination = path
	r.pushes++
}

// Destination возвращает запрошенный адрес или пустую строку.
func (r *Recorder) Destination() string {
	return r.destination
}

// Pushes возвращает количество различных переходов, запрошенных за запрос.
func (r *Recorder) Pushes() int {
	return r.pushes
}

// Pending сообщает, был ли запрошен переход.
func (r *Recorder) Pending() bool {
	return r.destination != ""
}

// Commit выполняет запрошенный переход редиректом и возвращает true.
// Если перехода не было, ничего не пишет и возвращает false.
func (r *Recorder) Commit(w http.ResponseWriter, req *http.Request) bool {
	if !r.Pending() {
		return false
	}
	code := http.StatusFound
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		code = http.StatusSeeOther
	}
	http.Redirect(w, req, r.destination, code)
	return true
}
