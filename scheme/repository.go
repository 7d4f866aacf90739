package scheme

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed descriptor_schema.json
var descriptorSchemaJSON []byte

var (
	descriptorSchemaOnce sync.Once
	descriptorSchema     *jsonschema.Schema
	descriptorSchemaErr  error
)

// compiledDescriptorSchema компилирует встроенную JSON Schema дескриптора один раз
func compiledDescriptorSchema() (*jsonschema.Schema, error) {
	descriptorSchemaOnce.Do(func() {
		var parsed any
		if err := json.Unmarshal(descriptorSchemaJSON, &parsed); err != nil {
			descriptorSchemaErr = fmt.Errorf("разбор встроенной схемы: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://euring_version.json", parsed); err != nil {
			descriptorSchemaErr = fmt.Errorf("регистрация схемы: %w", err)
			return
		}
		descriptorSchema, descriptorSchemaErr = c.Compile("schema://euring_version.json")
	})
	return descriptorSchema, descriptorSchemaErr
}

// Repository файловый репозиторий дескрипторов версий.
// Каждая версия хранится отдельным JSON файлом в <dataDir>/versions/.
type Repository struct {
	dataDir string
}

// NewRepository создает репозиторий поверх каталога данных
func NewRepository(dataDir string) (*Repository, error) {
	versionsDir := filepath.Join(dataDir, "versions")
	if err := os.MkdirAll(versionsDir, 0o755); err != nil {
		return nil, fmt.Errorf("создание каталога версий: %w", err)
	}
	return &Repository{dataDir: dataDir}, nil
}

func (r *Repository) versionsDir() string {
	return filepath.Join(r.dataDir, "versions")
}

func (r *Repository) versionFile(id string) string {
	return filepath.Join(r.versionsDir(), id+".json")
}

// Save сохраняет дескриптор версии в JSON файл
func (r *Repository) Save(v *Version) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация версии %s: %w", v.ID, err)
	}
	if err := os.WriteFile(r.versionFile(v.ID), data, 0o644); err != nil {
		return fmt.Errorf("запись версии %s: %w", v.ID, err)
	}
	return nil
}

// Load загружает одну версию по идентификатору; nil если файла нет
func (r *Repository) Load(id string) (*Version, error) {
	data, err := os.ReadFile(r.versionFile(id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("чтение версии %s: %w", id, err)
	}
	return r.decode(id, data)
}

// LoadAll загружает все версии из каталога, отсортированные по году.
// Битый файл версии пропускается с предупреждением в лог, остальные
// версии загружаются — один испорченный дескриптор не валит систему.
func (r *Repository) LoadAll() ([]*Version, error) {
	entries, err := os.ReadDir(r.versionsDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("чтение каталога версий: %w", err)
	}

	var versions []*Version
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.versionsDir(), e.Name()))
		if err != nil {
			log.Printf("Ошибка чтения файла версии %s: %v", e.Name(), err)
			continue
		}
		v, err := r.decode(e.Name(), data)
		if err != nil {
			log.Printf("Ошибка загрузки версии из %s: %v", e.Name(), err)
			continue
		}
		versions = append(versions, v)
	}

	sort.Slice(versions, func(i, j int) bool { return versions[i].Year < versions[j].Year })
	return versions, nil
}

// decode разбирает и валидирует JSON дескриптора по встроенной схеме
func (r *Repository) decode(name string, data []byte) (*Version, error) {
	schema, err := compiledDescriptorSchema()
	if err != nil {
		return nil, err
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("некорректный JSON в %s: %w", name, err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("дескриптор %s не прошёл валидацию схемы: %w", name, err)
	}
	var v Version
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("разбор дескриптора %s: %w", name, err)
	}
	return &v, nil
}

// Delete удаляет версию; возвращает true если файл существовал
func (r *Repository) Delete(id string) (bool, error) {
	err := os.Remove(r.versionFile(id))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("удаление версии %s: %w", id, err)
	}
	return true, nil
}

// Exists проверяет наличие версии в хранилище
func (r *Repository) Exists(id string) bool {
	_, err := os.Stat(r.versionFile(id))
	return err == nil
}

// Seed записывает встроенные версии, не перетирая уже существующие файлы
func (r *Repository) Seed(versions []*Version) error {
	for _, v := range versions {
		if r.Exists(v.ID) {
			continue
		}
		if err := r.Save(v); err != nil {
			return err
		}
	}
	return nil
}

// Backup копирует каталог данных в backup_<timestamp> внутри указанного пути
func (r *Repository) Backup(backupPath string) (string, error) {
	dst := filepath.Join(backupPath, "backup_"+time.Now().Format("20060102_150405"))
	if err := copyDir(r.dataDir, dst); err != nil {
		return "", fmt.Errorf("резервное копирование: %w", err)
	}
	return dst, nil
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode())
	})
}
