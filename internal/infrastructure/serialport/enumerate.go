package serialport

import (
	"sort"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// PortInfo описывает найденный в системе порт.
type PortInfo struct {
	Name    string
	IsUSB   bool
	VID     string
	PID     string
	Product string
}

// ListPorts возвращает порты системы. Сначала пробует подробное перечисление,
// при ошибке — простой список имен.
func ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err == nil {
		infos := make([]PortInfo, 0, len(details))
		for _, d := range details {
			infos = append(infos, PortInfo{
				Name:    d.Name,
				IsUSB:   d.IsUSB,
				VID:     d.VID,
				PID:     d.PID,
				Product: d.Product,
			})
		}
		sortInfos(infos)
		return infos, nil
	}

	names, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}
	infos := make([]PortInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, PortInfo{Name: name})
	}
	sortInfos(infos)
	return infos, nil
}

// ListPortNames возвращает только имена портов.
func ListPortNames() ([]string, error) {
	infos, err := ListPorts()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names, nil
}

func sortInfos(infos []PortInfo) {
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
}
