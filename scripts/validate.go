package main

import (
	"flag"
	"log"

	"matchtix/internal/repository"
)

func main() {
	var catalogPath string
	flag.StringVar(&catalogPath, "catalog", "", "Path to catalog JSON file (empty = built-in listings)")
	flag.Parse()

	log.Printf("Validating event catalog: %s", catalogPath)

	listings, err := repository.LoadListings(catalogPath)
	if err != nil {
		log.Fatalf("❌ Не удалось загрузить каталог: %v", err)
	}

	catalog, err := repository.NewEventCatalog(listings)
	if err != nil {
		log.Fatalf("❌ Каталог не прошёл проверку: %v", err)
	}

	for _, name := range catalog.Names() {
		log.Printf("  %s: %d seats", name, catalog.Availability(name))
	}

	log.Printf("✅ Каталог корректен: %d событий", len(catalog.Names()))
}
