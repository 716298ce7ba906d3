// Package tasksdk is the Go client for the taskboard API and the home of
// its wire types. The server encodes responses with these same types.
//
// Typical use:
//
//	client := tasksdk.NewClient("http://localhost:8080")
//	sess, err := client.Login(ctx, "ada@example.com", "password123")
//	if err != nil {
//		return err
//	}
//	project, err := sess.CreateProject(ctx, tasksdk.CreateProjectRequest{Title: "Launch"})
package tasksdk
