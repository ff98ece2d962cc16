package handlers

import (
	"net/http"

	services "github.com/reto140/reto140-api/api/services"
)

func CreateGroup(svc *services.GroupService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateGroupService(w, r)
	}
}

func JoinGroup(svc *services.GroupService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.JoinGroupService(w, r)
	}
}

func GetMyGroups(svc *services.GroupService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetMyGroupsService(w, r)
	}
}

func GetGroupDetails(svc *services.GroupService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetGroupDetailsService(w, r)
	}
}

func LeaveGroup(svc *services.GroupService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.LeaveGroupService(w, r)
	}
}
