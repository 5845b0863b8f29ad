package main

import (
	"log"
	"os"

	"github.com/padhai-app/padhai/core/user"
	inmemdb "github.com/padhai-app/padhai/storage/database/inmem"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	db, err := inmemdb.Open()
	errAndDie(err)

	cli := commandLine{
		db:     db,
		usrSvc: user.NewService(inmemdb.NewUserRepository(db)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
