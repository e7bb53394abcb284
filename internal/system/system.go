package system

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// memoryShare: доля свободной памяти, которую могут занять рабочие буферы.
const memoryShare = 0.25

// DefaultWorkers возвращает число физических ядер, а если gopsutil не смог
// их определить, то runtime.NumCPU().
func DefaultWorkers() int {
	n, err := cpu.Counts(false)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// CapWorkers ограничивает число воркеров так, чтобы perWorkerBytes буферов
// на каждого укладывались в долю доступной памяти. Всегда возвращает >= 1.
func CapWorkers(workers int, perWorkerBytes uint64) int {
	if workers < 1 {
		workers = 1
	}
	if perWorkerBytes == 0 {
		return workers
	}
	vm, err := mem.VirtualMemory()
	if err != nil || vm.Available == 0 {
		return workers
	}
	budget := uint64(float64(vm.Available) * memoryShare)
	if limit := int(budget / perWorkerBytes); limit < workers {
		workers = max(limit, 1)
	}
	return workers
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SanitizeName заменяет каждую серию недопустимых символов на "_".
// Пустой результат превращается в "tag".
func SanitizeName(label string) string {
	s := unsafeName.ReplaceAllString(strings.TrimSpace(label), "_")
	if s == "" || strings.Trim(s, "_") == "" {
		return "tag"
	}
	return s
}

// OutputPath строит путь вида dir/<label>__<variant>.png.
func OutputPath(dir, label, variant string) string {
	return filepath.Join(dir, fmt.Sprintf("%s__%s.png", SanitizeName(label), variant))
}

// FindLatestPreset возвращает самый свежий YAML-пресет в папке dir.
func FindLatestPreset(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := strings.ToLower(f.Name())
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no presets found in %s", dir)
	}
	return latestFile, nil
}

// AppendLine дописывает строку в конец файла, создавая его при необходимости.
func AppendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
