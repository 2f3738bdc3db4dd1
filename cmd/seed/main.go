package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/portalnorte/noticias-backend/config"
	"github.com/portalnorte/noticias-backend/pkg/helpers"
)

// seed inserts a verified demo reader and a handful of demo articles so the
// portal has content right after a fresh migration.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "leitor@portalnorte.local"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, name, age, password_hash, verified)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (email) DO UPDATE SET name=EXCLUDED.name
		RETURNING id
	`, email, "Demo Reader", 30, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	articles := []struct {
		title, summary, body, category string
	}{
		{
			"Obras da marginal entram na segunda fase",
			"Trecho norte recebe novo asfalto a partir de segunda-feira.",
			"A prefeitura confirmou o cronograma da segunda fase das obras da marginal. O trecho norte sera interditado durante as madrugadas e o desvio passa pela avenida central.",
			"cidade",
		},
		{
			"Feira de tecnologia abre inscricoes para expositores",
			"Edicao deste ano espera 200 estandes e rodada de negocios.",
			"As inscricoes para expositores da feira regional de tecnologia abrem nesta semana. Startups locais tem desconto na reserva de estandes e acesso a rodada de investidores.",
			"economia",
		},
		{
			"Time da casa garante vaga na final do estadual",
			"Vitoria por 2 a 1 fora de casa classifica a equipe.",
			"Com gols no segundo tempo, o time da casa venceu fora de seus dominios e garantiu a vaga na final do campeonato estadual. A decisao acontece no proximo domingo.",
			"esportes",
		},
	}

	for _, a := range articles {
		var articleID string
		err := db.QueryRow(`
			INSERT INTO articles (title, summary, body, category)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, a.title, a.summary, a.body, a.category).Scan(&articleID)
		if err != nil {
			log.Fatalf("failed to seed article %q: %v", a.title, err)
		}
		fmt.Printf("seeded article: id=%s title=%q\n", articleID, a.title)
	}
}
