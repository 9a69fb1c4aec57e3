package db

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestUserByEmail(t *testing.T) {
	defer func() { _ = testDB.Reset() }()
	c := qt.New(t)
	// test not found user
	user, err := testDB.UserByEmail(testUserEmail)
	c.Assert(user, qt.IsNil)
	c.Assert(err, qt.Equals, ErrNotFound)
	// create a new user with the email
	_, err = testDB.SetUser(&User{
		Email:    testUserEmail,
		Password: testUserPass,
	})
	c.Assert(err, qt.IsNil)
	// test found user
	user, err = testDB.UserByEmail(testUserEmail)
	c.Assert(err, qt.IsNil)
	c.Assert(user, qt.Not(qt.IsNil))
	c.Assert(user.Email, qt.Equals, testUserEmail)
	c.Assert(user.Password, qt.Equals, testUserPass)
}

func TestUser(t *testing.T) {
	defer func() { _ = testDB.Reset() }()
	c := qt.New(t)
	// test not found user
	user, err := testDB.User(100)
	c.Assert(user, qt.IsNil)
	c.Assert(err, qt.Equals, ErrNotFound)
	// create a new user
	id, err := testDB.SetUser(&User{
		Email:    testUserEmail,
		Password: testUserPass,
	})
	c.Assert(err, qt.IsNil)
	// test found user by ID
	user, err = testDB.User(id)
	c.Assert(err, qt.IsNil)
	c.Assert(user, qt.Not(qt.IsNil))
	c.Assert(user.Email, qt.Equals, testUserEmail)
}

func TestSetUser(t *testing.T) {
	defer func() { _ = testDB.Reset() }()
	c := qt.New(t)
	// trying to update a non existing user
	user := &User{
		ID:       100,
		Email:    testUserEmail,
		Password: testUserPass,
	}
	_, err := testDB.SetUser(user)
	c.Assert(err, qt.Equals, ErrInvalidData)
	// unset the ID to create a new user
	user.ID = 0
	id, err := testDB.SetUser(user)
	c.Assert(err, qt.IsNil)
	// update the user
	user.ID = id
	user.PastDue = true
	_, err = testDB.SetUser(user)
	c.Assert(err, qt.IsNil)
	// get the user
	user, err = testDB.User(id)
	c.Assert(err, qt.IsNil)
	c.Assert(user.PastDue, qt.IsTrue)
	// duplicated email is rejected
	_, err = testDB.SetUser(&User{Email: testUserEmail, Password: "other"})
	c.Assert(err, qt.Equals, ErrAlreadyExists)
}

func TestUserByCustomerID(t *testing.T) {
	defer func() { _ = testDB.Reset() }()
	c := qt.New(t)
	// empty customer id is invalid
	_, err := testDB.UserByCustomerID("")
	c.Assert(err, qt.Equals, ErrInvalidData)
	// unknown customer id is not found
	_, err = testDB.UserByCustomerID(testCustomerID)
	c.Assert(err, qt.Equals, ErrNotFound)
	// create a user and attach the customer id
	id, err := testDB.SetUser(&User{Email: testUserEmail, Password: testUserPass})
	c.Assert(err, qt.IsNil)
	c.Assert(testDB.SetUserCustomerID(id, testCustomerID), qt.IsNil)
	// the user is now reachable through the customer id
	user, err := testDB.UserByCustomerID(testCustomerID)
	c.Assert(err, qt.IsNil)
	c.Assert(user.ID, qt.Equals, id)
	c.Assert(user.CustomerID, qt.Equals, testCustomerID)
}

func TestSetUserPastDue(t *testing.T) {
	defer func() { _ = testDB.Reset() }()
	c := qt.New(t)
	// unknown customer is not found
	c.Assert(testDB.SetUserPastDue(testCustomerID, true), qt.Equals, ErrNotFound)
	// create a user bound to the customer id
	id, err := testDB.SetUser(&User{Email: testUserEmail, Password: testUserPass})
	c.Assert(err, qt.IsNil)
	c.Assert(testDB.SetUserCustomerID(id, testCustomerID), qt.IsNil)
	// flag and clear past due
	c.Assert(testDB.SetUserPastDue(testCustomerID, true), qt.IsNil)
	user, err := testDB.User(id)
	c.Assert(err, qt.IsNil)
	c.Assert(user.PastDue, qt.IsTrue)
	c.Assert(testDB.SetUserPastDue(testCustomerID, false), qt.IsNil)
	user, err = testDB.User(id)
	c.Assert(err, qt.IsNil)
	c.Assert(user.PastDue, qt.IsFalse)
}
