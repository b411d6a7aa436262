package jobController

import (
	"log"
	"time"

	"portal/database"
	"portal/middleware"
	"portal/models"
	jobService "portal/services/job"
	quizService "portal/services/quiz"
	"portal/utils"
	jobValidator "portal/validators/job"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

func ListJobs(c *fiber.Ctx) error {
	reqData := c.Locals("validatedJobQuery").(*jobValidator.JobListQuery)
	page, limit, offset := utils.Paginate(c, 20)
	db := database.Database.Db

	jobs, total, err := jobService.ListJobs(db, jobService.Filter{
		Query:      reqData.Query,
		Location:   reqData.Location,
		JobType:    reqData.JobType,
		Experience: reqData.Experience,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		log.Printf("[JOBS] Error listing jobs: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch jobs!", nil)
	}

	locations, err := jobService.Locations(db)
	if err != nil {
		log.Printf("[JOBS] Error listing locations: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch jobs!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Jobs fetched successfully!", fiber.Map{
		"jobs":              jobs,
		"locations":         locations,
		"job_types":         models.JobTypes,
		"experience_levels": models.ExperienceLevels,
		"work_modes":        models.WorkModes,
		"filters":           reqData,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func SearchJobs(c *fiber.Ctx) error {
	jobs, err := jobService.Search(database.Database.Db, c.Query("q"), c.Query("location"))
	if err != nil {
		log.Printf("[JOBS] Error searching jobs: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to search jobs!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Jobs fetched successfully!", fiber.Map{"jobs": jobs})
}

func JobDetail(c *fiber.Ctx) error {
	jobID := middleware.LocalID(c, "jobID")
	db := database.Database.Db

	job, err := jobService.ActiveJob(db, jobID)
	if err != nil {
		if errors.Is(err, jobService.ErrJobNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Job not found!", nil)
		}
		log.Printf("[JOBS] Error loading job %d: %v", jobID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch job!", nil)
	}

	jq, err := jobService.JobQuizOf(db, job.ID)
	if err != nil {
		log.Printf("[JOBS] Error loading quiz of job %d: %v", jobID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch job!", nil)
	}

	data := fiber.Map{"job": job, "has_quiz": jq != nil}
	if jq != nil {
		data["quiz"] = fiber.Map{"id": jq.Quiz.ID, "title": jq.Quiz.Title, "passing_score": jq.Quiz.PassingScore}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Job fetched successfully!", data)
}

func Apply(c *fiber.Ctx) error {
	jobID := middleware.LocalID(c, "jobID")
	userID := middleware.CurrentUserID(c)

	res, err := jobService.Apply(database.Database.Db, userID, jobID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, jobService.ErrJobNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Job not found!", nil)
		case errors.Is(err, jobService.ErrQuizNotReady):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "This job's quiz is not ready yet.", nil)
		}
		log.Printf("[JOBS] Error applying user %d to job %d: %v", userID, jobID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to apply for this job!", nil)
	}

	if res.Attempt != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Complete the quiz to finish your application.", fiber.Map{
			"application": res.Application,
			"attempt_id":  res.Attempt.ID,
			"next":        "take_quiz",
		})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Your application has been submitted!", fiber.Map{
		"application": res.Application,
		"next":        "job_detail",
	})
}

func MyApplications(c *fiber.Ctx) error {
	apps, err := jobService.Applications(database.Database.Db, middleware.CurrentUserID(c))
	if err != nil {
		log.Printf("[JOBS] Error listing applications: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch applications!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Applications fetched successfully!", fiber.Map{"applications": apps})
}

// Employee job wizard

func CreateJob(c *fiber.Ctx) error {
	reqData := c.Locals("validatedJob").(*jobService.JobInput)
	userID := middleware.CurrentUserID(c)

	job, err := jobService.CreateJob(database.Database.Db, userID, *reqData)
	if err != nil {
		log.Printf("[JOBS] Error creating job: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create job!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Job details saved. Now add a screening quiz.", fiber.Map{
		"job":  job,
		"next": "quiz_builder",
	})
}

func MyPostedJobs(c *fiber.Ctx) error {
	jobs, err := jobService.PostedBy(database.Database.Db, middleware.CurrentUserID(c))
	if err != nil {
		log.Printf("[JOBS] Error listing posted jobs: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch jobs!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Jobs fetched successfully!", fiber.Map{"jobs": jobs})
}

func managedJob(c *fiber.Ctx) (*models.Job, error) {
	job, err := jobService.ManagedJob(database.Database.Db, middleware.LocalID(c, "jobID"), middleware.CurrentUserID(c), middleware.CurrentRole(c))
	switch {
	case err == nil:
		return job, nil
	case errors.Is(err, jobService.ErrJobNotFound):
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Job not found!", nil)
	case errors.Is(err, jobService.ErrNotOwner):
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only manage jobs you posted.", nil)
	}
	log.Printf("[JOBS] Error loading job: %v", err)
	return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch job!", nil)
}

func BuildQuiz(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuiz").(*quizService.QuizInput)
	job, respErr := managedJob(c)
	if job == nil {
		return respErr
	}

	reqData.CreatedBy = middleware.CurrentUserID(c)
	q, err := jobService.BuildQuiz(database.Database.Db, job, *reqData, time.Now())
	if err != nil {
		if errors.Is(err, quizService.ErrNoQuestions) {
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Please add at least one question before saving the quiz.", nil)
		}
		log.Printf("[JOBS] Error building quiz for job %d: %v", job.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save quiz!", nil)
	}

	log.Printf("[JOBS] Job %d published with quiz %d", job.ID, q.ID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Job posted successfully with its quiz!", fiber.Map{
		"job":  job,
		"quiz": q,
	})
}

func LinkQuiz(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLinkQuiz").(*jobValidator.LinkQuizRequest)
	job, respErr := managedJob(c)
	if job == nil {
		return respErr
	}

	if err := jobService.LinkQuiz(database.Database.Db, job, reqData.QuizID); err != nil {
		if errors.Is(err, quizService.ErrQuizNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		}
		log.Printf("[JOBS] Error linking quiz to job %d: %v", job.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update job quiz!", nil)
	}

	if reqData.QuizID == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz removed from job.", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz linked to job.", fiber.Map{"quiz_id": *reqData.QuizID})
}

func Publish(c *fiber.Ctx) error {
	job, respErr := managedJob(c)
	if job == nil {
		return respErr
	}

	if err := jobService.Publish(database.Database.Db, job, time.Now()); err != nil {
		if errors.Is(err, jobService.ErrNoJobQuiz) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Attach a quiz with at least one question before publishing.", nil)
		}
		log.Printf("[JOBS] Error publishing job %d: %v", job.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish job!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Job published!", fiber.Map{"job": job})
}
