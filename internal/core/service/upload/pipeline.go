package upload

import (
	"context"
	"errors"
	"lesson-media/internal/core/domain"
	"lesson-media/internal/metrics"
)

// run drives one bundle through validating -> (converting) -> uploading -> complete
func (u *uploadService) run(ctx context.Context, bundle domain.UploadBundle, onProgress domain.ProgressReporter) (*domain.UploadResult, error) {
	job := domain.NewConversionJob(u.now)
	progress := newTracker(onProgress)

	result, err := u.execute(ctx, job, bundle, progress)
	if err != nil {
		stage := job.Stage
		job.Fail(err)
		metrics.UploadsTotal.WithLabelValues(string(bundle.Mode), metrics.OutcomeFailure).Inc()

		logFn := u.logger.Error
		if errors.Is(err, domain.ErrValidation) || ctx.Err() != nil {
			logFn = u.logger.Warn
		}
		logFn("lesson upload failed",
			"mode", bundle.Mode,
			"module_id", bundle.Lesson.ModuleID,
			"stage", stage,
			"error", err)
		return nil, err
	}

	metrics.UploadsTotal.WithLabelValues(string(bundle.Mode), metrics.OutcomeSuccess).Inc()
	return result, nil
}

func (u *uploadService) execute(ctx context.Context, job *domain.ConversionJob, bundle domain.UploadBundle, progress *tracker) (*domain.UploadResult, error) {
	progress.report(domain.ProgressValidation, 0, "validating upload")
	if err := u.validate(bundle); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	progress.report(domain.ProgressValidation, validationEnd, "upload validated")

	var video *preparedVideo
	if !bundle.Video.Empty() {
		job.InputBytes = bundle.Video.SizeBytes
		prepared, err := u.prepareVideo(ctx, job, *bundle.Video, progress)
		if err != nil {
			return nil, err
		}
		defer prepared.close()
		video = prepared
		job.OutputBytes = prepared.sizeBytes
	}

	if err := job.Advance(domain.StageUploading); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := u.storeFiles(ctx, bundle, video, progress)
	if err != nil {
		return nil, err
	}

	if err := job.Advance(domain.StageComplete); err != nil {
		return nil, err
	}
	progress.report(domain.ProgressComplete, 100, "lesson files uploaded")

	if video != nil {
		report := video.report
		result.Format = &report
		result.Converted = video.converted
		result.ConversionWarning = video.warning
	}
	result.Job = *job

	u.logger.Info("lesson upload complete",
		"mode", bundle.Mode,
		"module_id", bundle.Lesson.ModuleID,
		"video_url", result.VideoURL(),
		"converted", result.Converted,
		"attachments", len(result.Attachments))

	return result, nil
}
