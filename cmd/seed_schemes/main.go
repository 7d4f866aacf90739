package main

import (
	"flag"
	"fmt"
	"log"

	"euringserver/scheme"
)

func main() {
	var (
		dataDir = flag.String("dir", "data", "каталог хранения дескрипторов версий")
		force   = flag.Bool("force", false, "перезаписать существующие дескрипторы")
		backup  = flag.Bool("backup", false, "сделать резервную копию каталога перед записью")
	)
	flag.Parse()

	repo, err := scheme.NewRepository(*dataDir)
	if err != nil {
		log.Fatalf("Ошибка создания репозитория: %v", err)
	}

	if *backup {
		dst, err := repo.Backup(*dataDir + "_backups")
		if err != nil {
			log.Fatalf("Ошибка резервного копирования: %v", err)
		}
		log.Printf("Резервная копия: %s", dst)
	}

	written := 0
	for _, v := range scheme.BuiltinVersions() {
		if repo.Exists(v.ID) && !*force {
			log.Printf("Пропуск %s: дескриптор уже существует (используйте -force)", v.ID)
			continue
		}
		if err := repo.Save(v); err != nil {
			log.Fatalf("Ошибка записи дескриптора %s: %v", v.ID, err)
		}
		log.Printf("Записан дескриптор %s (%s, %d)", v.ID, v.Name, v.Year)
		written++
	}

	// Контрольная загрузка с проверкой целостности
	versions, reports, err := scheme.NewLoader(repo).LoadValidated()
	if err != nil {
		log.Fatalf("Ошибка контрольной загрузки: %v", err)
	}
	for _, report := range reports {
		for _, warning := range report.Warnings {
			log.Printf("Предупреждение %s: %s", report.VersionID, warning)
		}
		if !report.Valid() {
			log.Printf("ОШИБКА %s: %v", report.VersionID, report.Errors)
		}
	}

	fmt.Printf("Записано дескрипторов: %d, пригодных версий в каталоге: %d\n", written, len(versions))
}
