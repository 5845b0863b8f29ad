package main

import (
	"fmt"

	inmemdb "github.com/padhai-app/padhai/storage/database/inmem"
)

// seed loads the demo fixtures into a fresh store and prints a summary; it
// doubles as a smoke test of the fixture data.
func (cli *commandLine) seed() error {
	if err := inmemdb.Seed(cli.db); err != nil {
		return err
	}

	users, err := cli.usrSvc.QueryAll()
	if err != nil {
		return err
	}
	var admins, teachers, parents, students int
	for _, usr := range users {
		switch {
		case usr.IsAdmin():
			admins++
		case usr.IsTeacher():
			teachers++
		case usr.IsParent():
			parents++
		case usr.IsStudent():
			students++
		}
	}
	fmt.Printf("seeded %d users: %d admins, %d teachers, %d parents, %d students\n",
		len(users), admins, teachers, parents, students)

	stds, err := inmemdb.NewStudentRepository(cli.db).QueryAllStudents()
	if err != nil {
		return err
	}
	fmt.Printf("seeded %d student records\n", len(stds))

	enrs, err := inmemdb.NewEnrollmentRepository(cli.db).QueryAllEnrollments()
	if err != nil {
		return err
	}
	fmt.Printf("seeded %d enrollments\n", len(enrs))
	return nil
}
