package viewmodel

import (
	"fmt"

	"serialterm/internal/domain/models"
)

// MaxLogLines — сколько последних строк лога хранит ViewModel.
const MaxLogLines = 5000

const (
	SendButtonStart = "Send"
	SendButtonStop  = "Stop sending"
)

// MainViewModel хранит состояние главного окна терминала.
type MainViewModel struct {
	// Выбор порта
	PortNames []string
	PortName  string
	BaudRates []int
	BaudRate  int

	// Поля ввода
	Payload string
	Period  string

	// Вывод
	Log         []string
	LogSeq      uint64 // сколько строк добавлено за все время, включая отброшенные
	RecordCount int64

	// Статус
	IsConnected bool
	Periodic    bool

	// Доступность элементов управления
	StartEnabled   bool
	StopEnabled    bool
	SendButtonText string
	CountText      string
}

// NewMainViewModel создаёт новый экземпляр MainViewModel с дефолтными значениями.
func NewMainViewModel() *MainViewModel {
	vm := &MainViewModel{
		PortNames: models.DefaultPortNames(),
		PortName:  models.DefaultPortName(),
		BaudRates: append([]int(nil), models.SupportedBaudRates...),
		BaudRate:  models.DefaultBaudRate,
		Period:    "1000",
	}
	vm.UpdateUIState()
	return vm
}

// UpdateUIState пересчитывает производные поля из статуса подключения.
func (vm *MainViewModel) UpdateUIState() {
	vm.StartEnabled = !vm.IsConnected
	vm.StopEnabled = vm.IsConnected

	if vm.Periodic {
		vm.SendButtonText = SendButtonStop
	} else {
		vm.SendButtonText = SendButtonStart
	}
	vm.CountText = fmt.Sprintf("Records: %d", vm.RecordCount)
}

// AppendLog добавляет строку в лог, отбрасывая самые старые сверх MaxLogLines.
func (vm *MainViewModel) AppendLog(line string) {
	vm.Log = append(vm.Log, line)
	vm.LogSeq++
	if over := len(vm.Log) - MaxLogLines; over > 0 {
		vm.Log = append(vm.Log[:0:0], vm.Log[over:]...)
	}
}

// Config возвращает параметры порта из текущего выбора.
func (vm *MainViewModel) Config() models.PortConfig {
	return models.PortConfig{PortName: vm.PortName, BaudRate: vm.BaudRate}
}

// LinesSince возвращает строки, добавленные после отметки seen (значение LogSeq).
// reset = true, если часть этих строк уже отброшена и лог нужно перерисовать целиком.
func (vm *MainViewModel) LinesSince(seen uint64) (lines []string, reset bool) {
	added := vm.LogSeq - seen
	if seen > vm.LogSeq || added > uint64(len(vm.Log)) {
		return vm.Log, true
	}
	return vm.Log[len(vm.Log)-int(added):], false
}
